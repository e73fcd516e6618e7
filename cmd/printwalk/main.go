// Command printwalk bulk-walks the Printer MIB subtree of one or more
// devices and prints the results as JSON, optionally archiving them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"printprobe/config"
	"printprobe/logger"
	"printprobe/snmp"
	"printprobe/storage"
)

// walkEntry is one OID binding in the JSON output.
type walkEntry struct {
	OID   string `json:"oid"`
	Value string `json:"value"`
}

// walkOutput is the JSON document printed per target.
type walkOutput struct {
	Target    string      `json:"target"`
	Timestamp time.Time   `json:"timestamp"`
	Serial    string      `json:"serial,omitempty"`
	Entries   []walkEntry `json:"entries"`
	Errors    []string    `json:"errors,omitempty"`
}

func main() {
	targets := flag.String("target", "", "Target address(es), comma separated (required)")
	community := flag.String("community", "", "SNMP community string (overrides config)")
	port := flag.Uint("port", 0, "SNMP agent port (overrides config)")
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	timeout := flag.Duration("timeout", 0, "Per-request timeout (overrides config)")
	maxReps := flag.Uint("max-repetitions", 0, "Starting GETBULK batch size (overrides config, capped at 64)")
	archive := flag.Bool("archive", false, "Save results to the walk archive")
	output := flag.String("output", "", "Output file (default: stdout)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *targets == "" {
		fmt.Fprintf(os.Stderr, "Error: -target is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := logger.LevelFromString(cfg.Log.Level)
	if *verbose {
		level = logger.DEBUG
	}
	log := logger.New(level, cfg.Log.Dir)
	defer log.Close()

	snmpCfg := cfg.SNMPSettings()
	applyOverrides(snmpCfg, *community, *port, *timeout, *maxReps)

	var store *storage.Store
	if *archive {
		store, err = storage.Open(cfg.Archive.Path)
		if err != nil {
			log.Error("Failed to open walk archive", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	hosts := splitTargets(*targets)
	log.Debug("Starting walks", "targets", len(hosts))

	manager := snmp.NewManager(snmpCfg)
	responses := manager.BulkwalkAll(hosts)

	outputs := make([]walkOutput, 0, len(hosts))
	for _, host := range sortedKeys(responses) {
		response := responses[host]
		out := walkOutput{
			Target:    host,
			Timestamp: time.Now(),
			Errors:    response.Errors,
		}
		if serial, ok := response.Variables.GetSerialNumber(); ok {
			out.Serial = serial
		}
		for _, v := range response.Variables.Variables() {
			out.Entries = append(out.Entries, walkEntry{OID: v.NameAsString(), Value: v.Value})
		}
		outputs = append(outputs, out)

		log.Debug("Walk complete", "target", host,
			"variables", response.Variables.Size(), "errors", len(response.Errors))

		if store != nil {
			if _, err := store.SaveResponse(context.Background(), host, snmpCfg.Community, response); err != nil {
				log.Error("Failed to archive walk", "target", host, "error", err)
			}
		}
	}

	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		log.Error("Failed to marshal results", "error", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			log.Error("Failed to write output file", "path", *output, "error", err)
			os.Exit(1)
		}
		log.Info("Results written", "path", *output)
	} else {
		fmt.Println(string(data))
	}
}

// applyOverrides layers the command line flags over the loaded config.
// Zero values mean the flag was not given.
func applyOverrides(cfg *snmp.Config, community string, port uint, timeout time.Duration, maxReps uint) {
	if community != "" {
		cfg.Community = community
	}
	if port > 0 && port <= 65535 {
		cfg.Port = uint16(port)
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if maxReps > 0 {
		cfg.MaxRepetitions = uint32(maxReps)
	}
}

// splitTargets parses the comma separated -target value.
func splitTargets(s string) []string {
	parts := strings.Split(s, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hosts = append(hosts, p)
		}
	}
	return hosts
}

// sortedKeys returns the map keys in stable order for deterministic output.
func sortedKeys(m map[string]*snmp.Response) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

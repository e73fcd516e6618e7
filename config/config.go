// Package config loads printprobe configuration from a TOML file found on
// a platform-appropriate search path. A missing file is not an error; the
// defaults are usable against most printers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"printprobe/snmp"
)

// DefaultFilename is the config file looked up when no explicit path is
// given.
const DefaultFilename = "printprobe.toml"

// Config is the top-level file layout.
type Config struct {
	SNMP    SNMPConfig    `toml:"snmp"`
	Log     LogConfig     `toml:"log"`
	Archive ArchiveConfig `toml:"archive"`
}

// SNMPConfig maps the [snmp] table onto snmp.Config.
type SNMPConfig struct {
	Community      string `toml:"community"`
	Port           uint16 `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
	MaxRepetitions uint32 `toml:"max_repetitions"`
	MaxConnections int    `toml:"max_connections"`
}

// LogConfig maps the [log] table.
type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
}

// ArchiveConfig maps the [archive] table. An empty path disables the walk
// archive.
type ArchiveConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		SNMP: SNMPConfig{
			Community:      "public",
			Port:           161,
			TimeoutSeconds: 5,
			Retries:        2,
			MaxRepetitions: snmp.DefaultMaxRepetitions,
			MaxConnections: 10,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads the config file at path, or searches the standard locations
// when path is empty. A file that does not exist anywhere yields the
// defaults; a file that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		_, data, err = findConfigFile(DefaultFilename)
		if err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SNMPSettings converts the file layout into the walk engine's Config.
func (c *Config) SNMPSettings() *snmp.Config {
	return &snmp.Config{
		Community:      c.SNMP.Community,
		Port:           c.SNMP.Port,
		Timeout:        time.Duration(c.SNMP.TimeoutSeconds) * time.Second,
		Retries:        c.SNMP.Retries,
		MaxRepetitions: c.SNMP.MaxRepetitions,
		MaxConnections: c.SNMP.MaxConnections,
	}
}

// findConfigFile tries each search path in order and returns the first
// readable file.
func findConfigFile(filename string) (string, []byte, error) {
	for _, path := range searchPaths(filename) {
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}
	return "", nil, fmt.Errorf("%s not found in any search path", filename)
}

// searchPaths returns the candidate config locations, most specific first:
// system directory, user config directory, executable directory, cwd.
func searchPaths(filename string) []string {
	var paths []string

	switch runtime.GOOS {
	case "windows":
		paths = append(paths, filepath.Join(os.Getenv("ProgramData"), "printprobe", filename))
	case "darwin":
		paths = append(paths, filepath.Join("/Library/Application Support", "printprobe", filename))
	default:
		paths = append(paths, filepath.Join("/etc/printprobe", filename))
	}

	if home, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "windows":
			paths = append(paths, filepath.Join(home, "AppData", "Local", "printprobe", filename))
		case "darwin":
			paths = append(paths, filepath.Join(home, "Library", "Application Support", "printprobe", filename))
		default:
			paths = append(paths, filepath.Join(home, ".config", "printprobe", filename))
		}
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), filename))
	}

	paths = append(paths, filepath.Join(".", filename))
	return paths
}

// Package snmp implements the Printer MIB bulk-walk engine: it enumerates
// every object under the printer subtree of a remote device with repeated
// GETBULK requests, shrinking the batch size when the device reports an
// oversized response and keeping whatever was collected when a request
// fails partway through.
package snmp

import (
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	// DefaultMaxRepetitions is the GETBULK batch size a walk starts with.
	// 128 causes some printers to simply not respond.
	DefaultMaxRepetitions = 64

	// nonRepeaters is fixed: every walk requests exactly one repeating OID.
	nonRepeaters = 0

	defaultPort           = 161
	defaultTimeout        = 5 * time.Second
	defaultRetries        = 2
	defaultMaxConnections = 10
)

// Config holds the SNMP connection parameters shared by every session a
// Manager opens. The zero value is not usable; call NewConfig or fill the
// fields explicitly.
type Config struct {
	Community      string
	Port           uint16
	Timeout        time.Duration
	Retries        int
	MaxRepetitions uint32
	MaxConnections int
}

// NewConfig returns a Config with the given community and the device-tuned
// defaults for everything else.
func NewConfig(community string) *Config {
	return &Config{
		Community:      community,
		Port:           defaultPort,
		Timeout:        defaultTimeout,
		Retries:        defaultRetries,
		MaxRepetitions: DefaultMaxRepetitions,
		MaxConnections: defaultMaxConnections,
	}
}

// applyDefaults fills unset fields so a partially populated Config behaves.
func (c *Config) applyDefaults() {
	if c.Community == "" {
		c.Community = "public"
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRepetitions == 0 || c.MaxRepetitions > DefaultMaxRepetitions {
		c.MaxRepetitions = DefaultMaxRepetitions
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = defaultMaxConnections
	}
}

// BulkClient is one open SNMP v2c session bound to a single peer. It
// abstracts gosnmp so tests can substitute a fake device.
type BulkClient interface {
	// GetBulk sends one GETBULK and blocks for the matching response or a
	// transport failure.
	GetBulk(oids []string, nonRepeaters uint8, maxRepetitions uint32) (*gosnmp.SnmpPacket, error)
	Close() error
}

// NewBulkClient opens a session to target. Production code uses the gosnmp
// implementation; tests replace this variable to inject fake sessions.
var NewBulkClient = func(cfg *Config, target string) (BulkClient, error) {
	if target == "" {
		return nil, fmt.Errorf("target address required")
	}
	conn := &gosnmp.GoSNMP{
		Target:    target,
		Port:      cfg.Port,
		Community: cfg.Community,
		Version:   gosnmp.Version2c,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
	}
	if err := conn.Connect(); err != nil {
		return nil, err
	}
	return &gosnmpClient{conn: conn}, nil
}

// gosnmpClient implements BulkClient by delegating to gosnmp.GoSNMP.
type gosnmpClient struct {
	conn *gosnmp.GoSNMP
}

func (c *gosnmpClient) GetBulk(oids []string, nonRepeaters uint8, maxRepetitions uint32) (*gosnmp.SnmpPacket, error) {
	return c.conn.GetBulk(oids, nonRepeaters, maxRepetitions)
}

func (c *gosnmpClient) Close() error {
	if c.conn.Conn != nil {
		return c.conn.Conn.Close()
	}
	return nil
}

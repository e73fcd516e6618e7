package snmp

import (
	"fmt"
	"sync"

	"github.com/gosnmp/gosnmp"

	"printprobe/oid"
)

// Response is the outcome of one subtree walk. Variables holds every
// accepted binding in device order; Errors holds the diagnostics recorded
// along the way. Both are always present: a walk never fails outright, so
// callers inspect Errors to tell complete from degraded results.
type Response struct {
	Variables *oid.VariableSet
	Errors    []string
}

// addError appends a diagnostic without touching the collected variables.
func (r *Response) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Manager walks the Printer MIB subtree of remote devices. One Manager may
// serve many targets; each walk gets its own session and the number of
// concurrently open sessions is bounded by Config.MaxConnections.
type Manager struct {
	cfg *Config

	// newClient defaults to NewBulkClient; tests inject fake sessions here.
	newClient func(*Config, string) (BulkClient, error)
}

// NewManager returns a Manager using cfg, filling unset fields with
// defaults. The Config is not copied; callers must not mutate it while
// walks are running.
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = NewConfig("public")
	}
	cfg.applyDefaults()
	return &Manager{
		cfg: cfg,
		newClient: func(cfg *Config, target string) (BulkClient, error) {
			return NewBulkClient(cfg, target)
		},
	}
}

// Bulkwalk enumerates every object under the Printer MIB root on target.
// It always returns a Response: on session-open failure the response has
// zero variables and one error; on a mid-walk failure it keeps everything
// collected before the failure.
func (m *Manager) Bulkwalk(target string) *Response {
	response := &Response{Variables: &oid.VariableSet{}}

	client, err := m.newClient(m.cfg, target)
	if err != nil {
		response.addError("Open SNMP session error: %v", err)
		return response
	}
	defer client.Close()

	m.walk(client, response)
	return response
}

// walk drives the GETBULK loop. The cursor strictly advances on every
// successful batch and maxRepetitions strictly decreases on every TOOBIG,
// so the loop is bounded on any device that honors GETBULK semantics.
func (m *Manager) walk(client BulkClient, response *Response) {
	cursor := oid.PrinterMIB
	maxRepetitions := m.cfg.MaxRepetitions

	for {
		packet, err := client.GetBulk([]string{cursor.AsString()}, nonRepeaters, maxRepetitions)
		if err != nil {
			response.addError("SNMP request error: %v", err)
			return
		}

		switch packet.Error {
		case gosnmp.NoError:
			next, more := acceptBindings(packet.Variables, response.Variables)
			if !more {
				// Walked off the printer subtree: the expected end.
				return
			}
			cursor = next

		case gosnmp.TooBig:
			// The device cannot fit this many OIDs in one response.
			if maxRepetitions <= 1 {
				// Nothing left to shrink; return what we have.
				return
			}
			maxRepetitions /= 2

		default:
			response.addError("SNMP response error (%d): %s", uint8(packet.Error), statusText(packet.Error))
			return
		}
	}
}

// acceptBindings appends every in-subtree binding to vars, in order, and
// returns the last accepted OID as the next cursor. more is false once a
// binding falls outside the printer subtree, the device signals
// end-of-view, or the batch is empty: all three mean the walk is done.
func acceptBindings(pdus []gosnmp.SnmpPDU, vars *oid.VariableSet) (next oid.OID, more bool) {
	for _, pdu := range pdus {
		switch pdu.Type {
		case gosnmp.EndOfMibView, gosnmp.NoSuchObject, gosnmp.NoSuchInstance:
			return nil, false
		}

		name := oid.NewOID(pdu.Name)
		if !name.HasPrefix(oid.PrinterMIB) {
			return nil, false
		}

		vars.AddVariable(name, renderValue(pdu))
		next = name
	}
	if next == nil {
		return nil, false
	}
	return next, true
}

// statusText names the protocol error statuses from RFC 3416 that matter
// in diagnostics; unknown values fall back to a generic label.
func statusText(status gosnmp.SNMPError) string {
	switch status {
	case gosnmp.NoSuchName:
		return "no such name"
	case gosnmp.BadValue:
		return "bad value"
	case gosnmp.ReadOnly:
		return "read only"
	case gosnmp.GenErr:
		return "general error"
	case gosnmp.NoAccess:
		return "no access"
	case gosnmp.WrongType:
		return "wrong type"
	case gosnmp.AuthorizationError:
		return "authorization error"
	case gosnmp.NotWritable:
		return "not writable"
	case gosnmp.ResourceUnavailable:
		return "resource unavailable"
	}
	return "agent error"
}

// BulkwalkAll walks every target concurrently, one session per target,
// never more than Config.MaxConnections open at once. The returned map has
// an entry for every requested target.
func (m *Manager) BulkwalkAll(targets []string) map[string]*Response {
	results := make(map[string]*Response, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, m.cfg.MaxConnections)

	for _, target := range targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			response := m.Bulkwalk(target)
			mu.Lock()
			results[target] = response
			mu.Unlock()
		}(target)
	}
	wg.Wait()

	return results
}

// Package oid implements SNMP object identifiers and ordered variable sets.
package oid

import (
	"sort"
	"strconv"
	"strings"
)

// OID is a numeric object identifier: an ordered sequence of sub-identifiers.
type OID []uint

// NewOID parses a dotted OID string such as "1.3.6.1.2.1.43" or
// ".1.3.6.1.2.1.43.". Any non-numeric component yields an empty OID.
func NewOID(name string) OID {
	name = strings.TrimPrefix(name, ".")
	name = strings.TrimSuffix(name, ".")
	parts := strings.Split(name, ".")
	o := make(OID, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return OID{}
		}
		o[i] = uint(v)
	}
	return o
}

// AsString renders the OID in dotted form without a leading dot.
func (o OID) AsString() string {
	parts := make([]string, len(o))
	for i, d := range o {
		parts[i] = strconv.FormatUint(uint64(d), 10)
	}
	return strings.Join(parts, ".")
}

// HasPrefix reports whether the leading components of o equal p.
func (o OID) HasPrefix(p OID) bool {
	if len(o) < len(p) {
		return false
	}
	for i := range p {
		if o[i] != p[i] {
			return false
		}
	}
	return true
}

// IsEqualTo reports whether o and other are component-wise identical.
func (o OID) IsEqualTo(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// ComesBefore reports whether o sorts strictly before other in the
// lexicographic OID order. A proper prefix sorts before its extensions.
func (o OID) ComesBefore(other OID) bool {
	n := len(o)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if o[i] < other[i] {
			return true
		}
		if o[i] > other[i] {
			return false
		}
	}
	return len(o) < len(other)
}

// Variable is a single OID name:value binding with the value already
// rendered as a string.
type Variable struct {
	Name  OID
	Value string
}

// NameAsString renders the variable's OID in dotted form.
func (v *Variable) NameAsString() string {
	return v.Name.AsString()
}

// VariableSet is an ordered, append-only collection of variables. Order is
// whatever the producer appended, which for a bulk walk is the device's
// lexicographic order.
type VariableSet struct {
	vars []Variable
}

// Size returns the number of variables in the set.
func (vs *VariableSet) Size() int {
	return len(vs.vars)
}

// Variables returns the backing slice of variables.
func (vs *VariableSet) Variables() []Variable {
	return vs.vars
}

// AddVariable appends a variable. Rendered values arriving wrapped in
// quotes are unwrapped.
func (vs *VariableSet) AddVariable(name OID, value string) {
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	vs.vars = append(vs.vars, Variable{Name: name, Value: value})
}

// GetSubtree returns the contiguous run of variables whose names carry the
// given prefix. The receiver must be in lexicographic order.
func (vs *VariableSet) GetSubtree(prefix OID) *VariableSet {
	head := sort.Search(len(vs.vars), func(i int) bool {
		return !vs.vars[i].Name.ComesBefore(prefix)
	})
	tail := head
	for tail < len(vs.vars) && vs.vars[tail].Name.HasPrefix(prefix) {
		tail++
	}
	return &VariableSet{vars: vs.vars[head:tail]}
}

// GetVariable looks up a single variable by exact OID.
func (vs *VariableSet) GetVariable(o OID) (*Variable, bool) {
	subtree := vs.GetSubtree(o)
	if len(subtree.vars) > 0 && subtree.vars[0].Name.IsEqualTo(o) {
		return &subtree.vars[0], true
	}
	return nil, false
}

// GetValue looks up the rendered value of a single variable by exact OID.
func (vs *VariableSet) GetValue(o OID) (string, bool) {
	if v, ok := vs.GetVariable(o); ok {
		return v.Value, true
	}
	return "", false
}

// GetValues returns every rendered value in set order.
func (vs *VariableSet) GetValues() []string {
	values := make([]string, len(vs.vars))
	for i := range vs.vars {
		values[i] = vs.vars[i].Value
	}
	return values
}

package snmp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosnmp/gosnmp"
)

// renderValue converts a PDU value to the string form stored in the walk
// response: octet strings become readable text, numeric types decimal,
// object identifiers dotted, and anything else falls back to %v.
func renderValue(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return decodeOctetString(b)
		}
	case gosnmp.ObjectIdentifier:
		if s, ok := pdu.Value.(string); ok {
			return strings.TrimPrefix(s, ".")
		}
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Counter64,
		gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return fmt.Sprintf("%d", gosnmp.ToBigInt(pdu.Value))
	case gosnmp.IPAddress:
		if s, ok := pdu.Value.(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", pdu.Value)
}

// decodeOctetString converts raw octet string bytes to readable UTF-8,
// falling back to a byte-for-rune ISO-8859-1 mapping, and strips control
// characters and surrounding whitespace.
func decodeOctetString(b []byte) string {
	if b == nil {
		return ""
	}
	if utf8.Valid(b) {
		return sanitizeString(string(b))
	}
	runes := make([]rune, 0, len(b))
	for _, by := range b {
		runes = append(runes, rune(by))
	}
	return sanitizeString(string(runes))
}

// sanitizeString drops C0 control characters other than tab, newline and
// carriage return, and trims surrounding whitespace.
func sanitizeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

package snmp

import (
	"testing"

	"github.com/gosnmp/gosnmp"
)

func TestRenderValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want string
	}{
		{
			name: "octet string",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("HP LaserJet 4250")},
			want: "HP LaserJet 4250",
		},
		{
			name: "octet string with trailing null",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("SN123\x00")},
			want: "SN123",
		},
		{
			name: "latin-1 octet string",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte{'T', 'o', 'n', 'e', 'r', ' ', 0xe9}},
			want: "Toner é",
		},
		{
			name: "integer",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 42},
			want: "42",
		},
		{
			name: "counter32",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Counter32, Value: uint(123456)},
			want: "123456",
		},
		{
			name: "counter64",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(9876543210)},
			want: "9876543210",
		},
		{
			name: "gauge",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(7)},
			want: "7",
		},
		{
			name: "object identifier",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.2.1.43"},
			want: "1.3.6.1.2.1.43",
		},
		{
			name: "ip address",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.IPAddress, Value: "192.168.1.50"},
			want: "192.168.1.50",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := renderValue(tc.pdu); got != tc.want {
				t.Fatalf("renderValue = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeOctetString(t *testing.T) {
	t.Parallel()

	if got := decodeOctetString(nil); got != "" {
		t.Errorf("nil bytes rendered as %q", got)
	}
	if got := decodeOctetString([]byte("  padded  ")); got != "padded" {
		t.Errorf("whitespace not trimmed: %q", got)
	}
	if got := decodeOctetString([]byte("a\x01b\x02c")); got != "abc" {
		t.Errorf("control characters not stripped: %q", got)
	}
	if got := decodeOctetString([]byte("line1\nline2")); got != "line1\nline2" {
		t.Errorf("newline mangled: %q", got)
	}
}

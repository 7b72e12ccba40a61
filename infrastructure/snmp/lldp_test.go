package snmp

import (
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
)

func TestOIDSuffix(t *testing.T) {
	tests := []struct {
		name     string
		oid      string
		base     string
		expected []int
	}{
		{
			name:     "rem table entry",
			oid:      ".1.0.8802.1.1.2.1.4.1.1.9.0.3.1",
			base:     oidLLDPRemSysName,
			expected: []int{0, 3, 1},
		},
		{
			name:     "loc port entry",
			oid:      ".1.0.8802.1.1.2.1.3.7.1.3.5",
			base:     oidLLDPLocPortID,
			expected: []int{5},
		},
		{
			name:     "not under base",
			oid:      ".1.3.6.1.2.1.1.5.0",
			base:     oidLLDPRemSysName,
			expected: nil,
		},
		{
			name:     "base itself",
			oid:      oidLLDPRemSysName,
			base:     oidLLDPRemSysName,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, oidSuffix(tt.oid, tt.base))
		})
	}
}

func TestPDUString(t *testing.T) {
	assert.Equal(t, "r2.lab", pduString(gosnmp.SnmpPDU{Value: []byte("r2.lab ")}))
	assert.Equal(t, "ge-0/0/1", pduString(gosnmp.SnmpPDU{Value: "ge-0/0/1"}))
	assert.Equal(t, "42", pduString(gosnmp.SnmpPDU{Value: 42}))
}

func TestIndexKey(t *testing.T) {
	assert.Equal(t, "0.3.1", indexKey([]int{0, 3, 1}))
	assert.Equal(t, "", indexKey(nil))
}

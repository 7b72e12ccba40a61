// Package snmp discovers LLDP neighbors by walking the LLDP-MIB remote
// table, for devices that expose SNMP but no usable CLI.
package snmp

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/ssilveira/atacama/domain/entities"
)

// LLDP-MIB object identifiers
const (
	oidLLDPLocPortID   = ".1.0.8802.1.1.2.1.3.7.1.3"
	oidLLDPRemPortID   = ".1.0.8802.1.1.2.1.4.1.1.7"
	oidLLDPRemPortDesc = ".1.0.8802.1.1.2.1.4.1.1.8"
	oidLLDPRemSysName  = ".1.0.8802.1.1.2.1.4.1.1.9"
)

const defaultSNMPTimeout = 5 * time.Second

// LLDPSource queries one device's LLDP remote table over SNMP v2c
type LLDPSource struct {
	Community string
	Port      uint16
	Timeout   time.Duration
}

type remoteEntry struct {
	localPortNum int
	sysName      string
	portID       string
	portDesc     string
}

// Neighbors walks the LLDP remote table of the device and returns one
// link per remote entry. The local port number is resolved to its port
// id via the LLDP local port table when available.
func (s *LLDPSource) Neighbors(ctx context.Context, dev entities.Device) ([]entities.Link, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultSNMPTimeout
	}

	client := &gosnmp.GoSNMP{
		Target:    dev.Host,
		Port:      s.Port,
		Community: s.Community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   1,
		Context:   ctx,
	}
	if client.Port == 0 {
		client.Port = 161
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect to %s failed: %w", dev.Host, err)
	}
	defer client.Conn.Close()

	localPorts := make(map[int]string)
	_ = client.BulkWalk(oidLLDPLocPortID, func(pdu gosnmp.SnmpPDU) error {
		suffix := oidSuffix(pdu.Name, oidLLDPLocPortID)
		if len(suffix) != 1 {
			return nil
		}
		localPorts[suffix[0]] = pduString(pdu)
		return nil
	})

	remotes := make(map[string]*remoteEntry)
	entry := func(suffix []int, name string) *remoteEntry {
		// lldpRemEntry index: timeMark.localPortNum.remIndex
		if len(suffix) != 3 {
			return nil
		}
		e, ok := remotes[name]
		if !ok {
			e = &remoteEntry{localPortNum: suffix[1]}
			remotes[name] = e
		}
		return e
	}

	walks := []struct {
		oid   string
		apply func(e *remoteEntry, value string)
	}{
		{oidLLDPRemSysName, func(e *remoteEntry, v string) { e.sysName = v }},
		{oidLLDPRemPortID, func(e *remoteEntry, v string) { e.portID = v }},
		{oidLLDPRemPortDesc, func(e *remoteEntry, v string) { e.portDesc = v }},
	}
	for _, w := range walks {
		base := w.oid
		apply := w.apply
		err := client.BulkWalk(base, func(pdu gosnmp.SnmpPDU) error {
			suffix := oidSuffix(pdu.Name, base)
			e := entry(suffix, indexKey(suffix))
			if e == nil {
				return nil
			}
			apply(e, pduString(pdu))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("snmp walk of %s on %s failed: %w", base, dev.Host, err)
		}
	}

	keys := make([]string, 0, len(remotes))
	for k := range remotes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	links := make([]entities.Link, 0, len(keys))
	for _, k := range keys {
		e := remotes[k]
		if e.sysName == "" {
			continue
		}
		localPort := localPorts[e.localPortNum]
		if localPort == "" {
			localPort = strconv.Itoa(e.localPortNum)
		}
		remotePort := e.portID
		if remotePort == "" {
			remotePort = e.portDesc
		}
		links = append(links, entities.Link{
			Local:      dev.Name,
			LocalPort:  localPort,
			Remote:     e.sysName,
			RemotePort: remotePort,
			Protocol:   entities.ProtocolLLDP,
		})
	}
	return links, nil
}

func indexKey(suffix []int) string {
	parts := make([]string, len(suffix))
	for i, n := range suffix {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// oidSuffix returns the numeric index components of oid under base, or
// nil when oid is not under base
func oidSuffix(oid, base string) []int {
	oid = strings.TrimPrefix(oid, ".")
	base = strings.TrimPrefix(base, ".")
	if !strings.HasPrefix(oid, base+".") {
		return nil
	}
	rest := strings.TrimPrefix(oid, base+".")
	parts := strings.Split(rest, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

// pduString renders an SNMP value as text regardless of its wire type
func pduString(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

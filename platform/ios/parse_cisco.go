package ios

import (
	"regexp"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
)

var (
	ipv4Regex       = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)
	interfaceRegex  = regexp.MustCompile(`^[A-Za-z]+[-A-Za-z]*\d+(?:/\d+){0,3}(?:\.\d+)?$`)
	commandErrHints = []string{
		"invalid input",
		"unknown command",
		"incomplete command",
		"ambiguous command",
		"unrecognized command",
		"invalid command",
		"syntax error",
		"% lldp is not enabled",
	}
)

// parseLLDPDetail extracts neighbor entries from 'show lldp neighbors
// detail'. Entries are block-structured, one block per neighbor,
// separated by dashed lines.
func parseLLDPDetail(output, local string) []entities.Link {
	links := make([]entities.Link, 0)

	var localPort, remotePort, remoteName string
	flush := func() {
		if remoteName != "" {
			links = append(links, entities.Link{
				Local:      local,
				LocalPort:  localPort,
				Remote:     remoteName,
				RemotePort: remotePort,
				Protocol:   entities.ProtocolLLDP,
			})
		}
		localPort, remotePort, remoteName = "", "", ""
	}

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if isSeparatorLine(trimmed) {
			flush()
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "local intf":
			localPort = value
		case "port id":
			remotePort = value
		case "system name":
			remoteName = value
		}
	}
	flush()
	return links
}

// parseOSPFNeighbors extracts adjacencies from 'show ip ospf neighbor'.
// Each neighbor row starts with the neighbor router id.
func parseOSPFNeighbors(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 6 || !ipv4Regex.MatchString(fields[0]) {
			continue
		}
		iface := fields[len(fields)-1]
		if !interfaceRegex.MatchString(iface) {
			continue
		}
		links = append(links, entities.Link{
			Local:     local,
			LocalPort: iface,
			Remote:    fields[0],
			Protocol:  entities.ProtocolOSPF,
		})
	}
	return links
}

// parseBGPSummary extracts established peers from 'show ip bgp summary'.
// A peer row is neighbor address first, a numeric prefix count last;
// a textual last column means the session is down.
func parseBGPSummary(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 10 || !ipv4Regex.MatchString(fields[0]) {
			continue
		}
		state := fields[len(fields)-1]
		if !isNumeric(state) {
			continue
		}
		links = append(links, entities.Link{
			Local:    local,
			Remote:   fields[0],
			Protocol: entities.ProtocolBGP,
		})
	}
	return links
}

// parseISISNeighbors extracts adjacencies from 'show isis neighbors'
func parseISISNeighbors(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 5 {
			continue
		}
		system := fields[0]
		iface := fields[2]
		if strings.EqualFold(system, "system") || !interfaceRegex.MatchString(iface) {
			continue
		}
		state := strings.ToLower(fields[4])
		if state != "up" {
			continue
		}
		links = append(links, entities.Link{
			Local:     local,
			LocalPort: iface,
			Remote:    system,
			Protocol:  entities.ProtocolISIS,
		})
	}
	return links
}

func isSeparatorLine(line string) bool {
	if line == "" {
		return false
	}
	return strings.Trim(line, "-") == ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isCommandError(output string) bool {
	lower := strings.ToLower(output)
	for _, hint := range commandErrHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

package junos

import (
	"regexp"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
)

var (
	ipv4Regex       = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)
	junosIfaceRegex = regexp.MustCompile(`^[a-z]{2,4}-\d+/\d+/\d+(?:\.\d+)?$|^(?:ae|irb|lo|em|fxp)\d+(?:\.\d+)?$`)
)

// parseLLDPNeighbors extracts entries from 'show lldp neighbors'.
// Columns: Local Interface, Parent Interface, Chassis Id, Port info,
// System Name.
func parseLLDPNeighbors(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 5 || !junosIfaceRegex.MatchString(fields[0]) {
			continue
		}
		remoteName := fields[len(fields)-1]
		remotePort := fields[len(fields)-2]
		links = append(links, entities.Link{
			Local:      local,
			LocalPort:  fields[0],
			Remote:     remoteName,
			RemotePort: remotePort,
			Protocol:   entities.ProtocolLLDP,
		})
	}
	return links
}

// parseOSPFNeighbors extracts adjacencies from 'show ospf neighbor'.
// Columns: Address, Interface, State, ID, Pri, Dead.
func parseOSPFNeighbors(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 6 || !ipv4Regex.MatchString(fields[0]) {
			continue
		}
		if !strings.EqualFold(fields[2], "full") {
			continue
		}
		links = append(links, entities.Link{
			Local:     local,
			LocalPort: fields[1],
			Remote:    fields[3],
			Protocol:  entities.ProtocolOSPF,
		})
	}
	return links
}

// parseBGPSummary extracts established peers from 'show bgp summary'.
// Established sessions show prefix counts or 'Establ' in the state
// column; Idle/Active/Connect mean the peering is down.
func parseBGPSummary(output, local string) []entities.Link {
	downStates := map[string]bool{"idle": true, "active": true, "connect": true, "opensent": true, "openconfirm": true}
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 8 || !ipv4Regex.MatchString(fields[0]) {
			continue
		}
		state := strings.ToLower(fields[len(fields)-1])
		if downStates[state] {
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

// parseISISAdjacency extracts adjacencies from 'show isis adjacency'.
// Columns: Interface, System, L, State, Hold, SNPA.
func parseISISAdjacency(output, local string) []entities.Link {
	links := make([]entities.Link, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 4 || !junosIfaceRegex.MatchString(fields[0]) {
			continue
		}
		if !strings.EqualFold(fields[3], "up") {
			continue
		}
		links = append(links, entities.Link{
			Local:     local,
			LocalPort: fields[0],
			Remote:    fields[1],
			Protocol:  entities.ProtocolISIS,
		})
	}
	return links
}

func isCommandError(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "syntax error") ||
		strings.Contains(lower, "unknown command") ||
		strings.Contains(lower, "error: ")
}

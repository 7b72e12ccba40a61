package platform

import (
	"fmt"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/domain/ports"
	"github.com/ssilveira/atacama/platform/ios"
	"github.com/ssilveira/atacama/platform/junos"
)

// NeighborDriver defines the behaviour required to discover adjacencies
// on a network operating system.
type NeighborDriver interface {
	Name() string
	Detect(repo ports.DeviceRepository) (bool, error)

	// AuthSequence returns the login prompt sequence for this platform
	AuthSequence(username, password string) []entities.AuthPrompt

	// SetupCommands are sent after login, before any discovery command
	SetupCommands() []string

	LLDPNeighbors(repo ports.DeviceRepository, local string) ([]entities.Link, error)
	OSPFNeighbors(repo ports.DeviceRepository, local string) ([]entities.Link, error)
	BGPPeers(repo ports.DeviceRepository, local string) ([]entities.Link, error)
	ISISAdjacencies(repo ports.DeviceRepository, local string) ([]entities.Link, error)
}

var registry = []NeighborDriver{
	ios.New(),
	junos.New(),
}

// Get returns a driver by normalized platform name.
func Get(name string) (NeighborDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unknown device platform: %s", name)
}

// Available returns all registered drivers.
func Available() []NeighborDriver {
	out := make([]NeighborDriver, len(registry))
	copy(out, registry)
	return out
}

// Detect tries all registered drivers until one matches.
func Detect(repo ports.DeviceRepository) (NeighborDriver, error) {
	var lastErr error
	for _, driver := range registry {
		matched, err := driver.Detect(repo)
		if err != nil {
			lastErr = err
			continue
		}
		if matched {
			return driver, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("platform detection failed: %w", lastErr)
	}
	return nil, fmt.Errorf("no driver matched the device")
}

// Collect dispatches one discovery protocol to the matching driver method.
func Collect(driver NeighborDriver, repo ports.DeviceRepository, local string, proto entities.Protocol) ([]entities.Link, error) {
	switch proto {
	case entities.ProtocolLLDP:
		return driver.LLDPNeighbors(repo, local)
	case entities.ProtocolOSPF:
		return driver.OSPFNeighbors(repo, local)
	case entities.ProtocolBGP:
		return driver.BGPPeers(repo, local)
	case entities.ProtocolISIS:
		return driver.ISISAdjacencies(repo, local)
	default:
		return nil, fmt.Errorf("protocol %s has no collector", proto)
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

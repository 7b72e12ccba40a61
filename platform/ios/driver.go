package ios

import (
	"fmt"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/domain/ports"
)

const driverName = "ios"

// Driver implements neighbor discovery for Cisco IOS devices.
type Driver struct{}

// New creates a new IOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Detect inspects the device to determine whether it is running IOS.
func (d *Driver) Detect(repo ports.DeviceRepository) (bool, error) {
	if !repo.IsConnected() {
		if err := repo.Connect(); err != nil {
			return false, err
		}
	}
	output, err := repo.ExecuteCommand("show version")
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(output), "cisco ios"), nil
}

// AuthSequence returns the IOS login sequence.
func (d *Driver) AuthSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "Username:", SendCmd: username + "\n"},
		{WaitFor: "Password:", SendCmd: password + "\n"},
	}
}

// SetupCommands disables output paging.
func (d *Driver) SetupCommands() []string {
	return []string{"terminal length 0"}
}

func (d *Driver) run(repo ports.DeviceRepository, cmd string) (string, error) {
	output, err := repo.ExecuteCommand(cmd)
	if err != nil {
		return "", err
	}
	if isCommandError(output) {
		return "", fmt.Errorf("command '%s' unsupported by device", cmd)
	}
	return output, nil
}

// LLDPNeighbors retrieves LLDP adjacencies.
func (d *Driver) LLDPNeighbors(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show lldp neighbors detail")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve LLDP neighbors: %w", err)
	}
	return parseLLDPDetail(output, local), nil
}

// OSPFNeighbors retrieves OSPF adjacencies.
func (d *Driver) OSPFNeighbors(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show ip ospf neighbor")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve OSPF neighbors: %w", err)
	}
	return parseOSPFNeighbors(output, local), nil
}

// BGPPeers retrieves established BGP peerings.
func (d *Driver) BGPPeers(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show ip bgp summary")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve BGP peers: %w", err)
	}
	return parseBGPSummary(output, local), nil
}

// ISISAdjacencies retrieves IS-IS adjacencies.
func (d *Driver) ISISAdjacencies(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show isis neighbors")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve IS-IS neighbors: %w", err)
	}
	return parseISISNeighbors(output, local), nil
}

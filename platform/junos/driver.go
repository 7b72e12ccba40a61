package junos

import (
	"fmt"
	"strings"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/domain/ports"
)

const driverName = "junos"

// Driver implements neighbor discovery for Juniper Junos devices.
type Driver struct{}

// New creates a new Junos driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Detect inspects the device to determine whether it is running Junos.
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
	return strings.Contains(strings.ToLower(output), "junos"), nil
}

// AuthSequence returns the Junos login sequence.
func (d *Driver) AuthSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "login:", SendCmd: username + "\n"},
		{WaitFor: "Password:", SendCmd: password + "\n"},
	}
}

// SetupCommands disables CLI paging.
func (d *Driver) SetupCommands() []string {
	return []string{"set cli screen-length 0"}
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
	output, err := d.run(repo, "show lldp neighbors")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve LLDP neighbors: %w", err)
	}
	return parseLLDPNeighbors(output, local), nil
}

// OSPFNeighbors retrieves full OSPF adjacencies.
func (d *Driver) OSPFNeighbors(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show ospf neighbor")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve OSPF neighbors: %w", err)
	}
	return parseOSPFNeighbors(output, local), nil
}

// BGPPeers retrieves established BGP peerings.
func (d *Driver) BGPPeers(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show bgp summary")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve BGP peers: %w", err)
	}
	return parseBGPSummary(output, local), nil
}

// ISISAdjacencies retrieves IS-IS adjacencies.
func (d *Driver) ISISAdjacencies(repo ports.DeviceRepository, local string) ([]entities.Link, error) {
	output, err := d.run(repo, "show isis adjacency")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve IS-IS adjacencies: %w", err)
	}
	return parseISISAdjacency(output, local), nil
}

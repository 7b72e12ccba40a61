package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ssilveira/atacama/domain/entities"
)

// SNMPConfig carries the parameters for SNMP-based discovery sources
type SNMPConfig struct {
	Community string `yaml:"community"`
	Port      int    `yaml:"port"`
}

// DiscoveryConfig selects the protocols queried on each device
type DiscoveryConfig struct {
	Protocols []string   `yaml:"protocols"`
	SNMP      SNMPConfig `yaml:"snmp"`
}

// Visualization holds the rendering preferences for the exported graph
type Visualization struct {
	Layout       string `yaml:"layout"`
	NodeColor    string `yaml:"node_color"`
	EdgeColor    string `yaml:"edge_color"`
	FontSize     int    `yaml:"font_size"`
	OutputFormat string `yaml:"output_format"`
	OutputFile   string `yaml:"output_file"`
}

// TopoConfig defines the global topology-mapper configuration
type TopoConfig struct {
	Transport     string            `yaml:"transport"`
	Platform      string            `yaml:"platform"`
	Username      string            `yaml:"username"`
	Password      string            `yaml:"password"`
	Devices       []entities.Device `yaml:"devices"`
	Discovery     DiscoveryConfig   `yaml:"discovery"`
	Visualization Visualization     `yaml:"visualization"`
}

// Protocols returns the validated protocol set in config order
func (c *TopoConfig) Protocols() []entities.Protocol {
	out := make([]entities.Protocol, 0, len(c.Discovery.Protocols))
	for _, name := range c.Discovery.Protocols {
		proto, err := entities.ParseProtocol(name)
		if err != nil {
			continue // rejected during Load
		}
		out = append(out, proto)
	}
	return out
}

func validateTransport(transport string) error {
	switch transport {
	case "ssh", "telnet":
		return nil
	default:
		return fmt.Errorf("transport %s is invalid, must be 'ssh' or 'telnet'", transport)
	}
}

func validateSource(source string) error {
	switch source {
	case "cli", "snmp":
		return nil
	default:
		return fmt.Errorf("source %s is invalid, must be 'cli' or 'snmp'", source)
	}
}

func validateOutputFormat(format string) error {
	switch format {
	case "png", "svg", "dot":
		return nil
	default:
		return fmt.Errorf("output_format %s is invalid, must be 'png', 'svg', or 'dot'", format)
	}
}

// Load loads and validates the topology configuration from a YAML file
func Load(yamlFile string) (*TopoConfig, error) {
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", yamlFile, err)
	}
	var cfg TopoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if cfg.Transport == "" {
		cfg.Transport = "ssh"
	}
	if err := validateTransport(cfg.Transport); err != nil {
		return nil, err
	}

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	if cfg.Platform == "" {
		cfg.Platform = "auto"
	}

	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("at least one device is required")
	}

	seen := make(map[string]bool)
	snmpRequired := false
	for i := range cfg.Devices {
		dev := &cfg.Devices[i]
		if dev.Name == "" {
			return nil, fmt.Errorf("hostname is required for device %d", i)
		}
		if dev.Host == "" {
			return nil, fmt.Errorf("host is required for device %s", dev.Name)
		}
		if seen[dev.Name] {
			return nil, fmt.Errorf("duplicate device hostname %s", dev.Name)
		}
		seen[dev.Name] = true

		dev.Transport = strings.ToLower(strings.TrimSpace(dev.Transport))
		if dev.Transport == "" {
			dev.Transport = cfg.Transport
		}
		if err := validateTransport(dev.Transport); err != nil {
			return nil, fmt.Errorf("device %s: %w", dev.Name, err)
		}

		dev.Source = strings.ToLower(strings.TrimSpace(dev.Source))
		if dev.Source == "" {
			dev.Source = "cli"
		}
		if err := validateSource(dev.Source); err != nil {
			return nil, fmt.Errorf("device %s: %w", dev.Name, err)
		}
		if dev.Source == "snmp" {
			snmpRequired = true
		}

		if dev.Platform == "" {
			dev.Platform = cfg.Platform
		}

		if dev.Username == "" {
			dev.Username = cfg.Username
		}
		if dev.Password == "" {
			dev.Password = cfg.Password
		}
		if dev.Source == "cli" && dev.Username == "" {
			return nil, fmt.Errorf("username is required for device %s", dev.Name)
		}
	}

	if len(cfg.Discovery.Protocols) == 0 {
		cfg.Discovery.Protocols = []string{"lldp"}
	}
	for _, name := range cfg.Discovery.Protocols {
		if _, err := entities.ParseProtocol(name); err != nil {
			return nil, err
		}
	}

	if snmpRequired {
		if cfg.Discovery.SNMP.Community == "" {
			return nil, fmt.Errorf("discovery.snmp.community is required when a device uses the snmp source")
		}
	}
	if cfg.Discovery.SNMP.Port == 0 {
		cfg.Discovery.SNMP.Port = 161
	}
	if cfg.Discovery.SNMP.Port < 1 || cfg.Discovery.SNMP.Port > 65535 {
		return nil, fmt.Errorf("discovery.snmp.port %d is invalid, must be between 1 and 65535", cfg.Discovery.SNMP.Port)
	}

	viz := &cfg.Visualization
	if viz.Layout == "" {
		viz.Layout = "dot"
	}
	if viz.NodeColor == "" {
		viz.NodeColor = "lightblue"
	}
	if viz.EdgeColor == "" {
		viz.EdgeColor = "gray"
	}
	if viz.FontSize == 0 {
		viz.FontSize = 10
	}
	viz.OutputFormat = strings.ToLower(strings.TrimSpace(viz.OutputFormat))
	if viz.OutputFormat == "" {
		viz.OutputFormat = "png"
	}
	if err := validateOutputFormat(viz.OutputFormat); err != nil {
		return nil, err
	}
	if viz.OutputFile == "" {
		viz.OutputFile = "network_topology." + viz.OutputFormat
	}
	if ext := filepath.Ext(viz.OutputFile); ext == "" {
		viz.OutputFile += "." + viz.OutputFormat
	}

	return &cfg, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ssilveira/atacama/application/services"
	"github.com/ssilveira/atacama/infrastructure/config"
	"github.com/ssilveira/atacama/infrastructure/export"
	"github.com/ssilveira/atacama/infrastructure/logging"
	"github.com/ssilveira/atacama/infrastructure/snmp"
	"github.com/ssilveira/atacama/infrastructure/transport"
)

const defaultTopoConfig = "topology.yaml"

func newTopoCmd(verbosity *int) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "topo",
		Short: "Discover the network topology and render it",
		Long: `Queries every device in the YAML configuration for its neighbors
over the enabled protocols (LLDP, OSPF, BGP, IS-IS), merges the answers
into a single graph, and exports it as DOT, PNG, or SVG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(*verbosity)

			configPath, err := findTopoConfig(configFile)
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug().Str("config", configPath).Msg("configuration loaded")

			defer transport.CloseAll()

			source := &snmp.LLDPSource{
				Community: cfg.Discovery.SNMP.Community,
				Port:      uint16(cfg.Discovery.SNMP.Port),
			}
			discovery := services.NewDiscovery(cfg, source, logger)

			topo, err := discovery.Discover(cmd.Context())
			if err != nil {
				return err
			}

			dot, err := export.WriteDOT(topo, cfg.Visualization)
			if err != nil {
				return err
			}
			viz := cfg.Visualization
			if err := export.Render(cmd.Context(), dot, viz.OutputFormat, viz.OutputFile); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Topology written to %s (%d nodes, %d links)\n",
				viz.OutputFile, topo.NodeCount(), topo.LinkCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "f", defaultTopoConfig, "YAML topology configuration file")
	return cmd
}

// findTopoConfig resolves the configuration path. An explicit flag value
// is used as-is; the default name is searched in the working directory,
// the user config directory, and the system config directory.
func findTopoConfig(configFile string) (string, error) {
	if configFile != defaultTopoConfig {
		return configFile, nil
	}

	possiblePaths := []string{filepath.Join(".", defaultTopoConfig)}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(userConfigDir, "atacama", defaultTopoConfig))
	}
	if runtime.GOOS != "windows" {
		possiblePaths = append(possiblePaths, filepath.Join("/etc/atacama", defaultTopoConfig))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s found in ./, user config dir, or /etc/atacama/", defaultTopoConfig)
}

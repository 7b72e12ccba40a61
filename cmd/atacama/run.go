package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssilveira/atacama/application/services"
	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/infrastructure/config"
	"github.com/ssilveira/atacama/infrastructure/logging"
	"github.com/ssilveira/atacama/infrastructure/terminal"
	"github.com/ssilveira/atacama/infrastructure/transport"
)

func newRunCmd(verbosity *int) *cobra.Command {
	var (
		inventoryFile string
		command       string
		site          string
		keyFile       string
		timeout       time.Duration
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a command on every device in the inventory",
		Long: `Connects to every device listed in the CSV inventory and executes
an operator command on all of them, printing the output per device in
inventory order. Without --command an interactive loop reads commands
until 'exit'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(*verbosity)

			devices, err := config.LoadInventory(inventoryFile, site)
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				return fmt.Errorf("no devices matched in %s", inventoryFile)
			}

			creds, err := terminal.PromptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr(), keyFile != "")
			if err != nil {
				return err
			}
			for i := range devices {
				devices[i].Transport = "ssh"
				devices[i].Username = creds.Username
				devices[i].Password = creds.Password
				devices[i].KeyFile = keyFile
			}

			defer transport.CloseAll()
			executor := services.NewExecutor(timeout, workers, logger)

			if command != "" {
				printResults(cmd.OutOrStdout(), executor.Run(cmd.Context(), devices, command))
				return nil
			}
			return commandLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), executor, devices)
		},
	}

	cmd.Flags().StringVarP(&inventoryFile, "inventory", "i", "devices.csv", "CSV inventory file with name,host columns")
	cmd.Flags().StringVarP(&command, "command", "c", "", "command to execute (omit for interactive mode)")
	cmd.Flags().StringVarP(&site, "site", "s", "", "filter devices by site code (case-insensitive)")
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "SSH private key file (skips the password prompt)")
	cmd.Flags().DurationVar(&timeout, "timeout", services.DefaultCommandTimeout, "per-device command timeout")
	cmd.Flags().IntVar(&workers, "workers", services.DefaultWorkers, "maximum concurrent device sessions")
	return cmd
}

func commandLoop(ctx context.Context, in io.Reader, out io.Writer, executor *services.Executor, devices []entities.Device) error {
	fmt.Fprintf(out, "Connected inventory: %d devices. Type a command, 'help', or 'exit'.\n", len(devices))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "atacama> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			printHelp(out)
			continue
		}
		printResults(out, executor.Run(ctx, devices, line))
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands are sent verbatim to every device in the inventory.")
	fmt.Fprintln(out, "  help          show this message")
	fmt.Fprintln(out, "  exit | quit   leave the program")
	fmt.Fprintln(out, "Typical device commands: show version, show interfaces terse, show chassis hardware")
}

func printResults(out io.Writer, results []entities.CommandResult) {
	for _, r := range results {
		fmt.Fprintf(out, "===== %s (%s) [%.2fs]\n", r.Device, r.Host, r.Elapsed.Seconds())
		if r.Failed() {
			fmt.Fprintf(out, "ERROR: %v\n", r.Err)
		} else if strings.TrimSpace(r.Output) == "" {
			fmt.Fprintln(out, "(no output)")
		} else {
			fmt.Fprintln(out, strings.TrimRight(r.Output, "\n"))
		}
		fmt.Fprintln(out)
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and wires all subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	serveFlags := &ServeFlags{}
	logsFlags := &LogsFlags{}

	cmd := command{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createServeCommand(cmd, serveFlags),
		createStartCommand(cmd, globalFlags),
		createStopCommand(cmd, globalFlags),
		createStatusCommand(cmd, globalFlags),
		createLogsCommand(cmd, globalFlags, logsFlags),
		createConfigCommand(cmd, globalFlags),
	)
	return root
}

// createRootCommand creates the root command with minimal persistent flags.
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "vmhuntr",
		Short: "OCI ARM capacity hunter",
		Long: `Vmhuntr retries creation of an OCI ARM compute instance across a fixed
set of availability domains until capacity becomes available, exposing a
live status feed over HTTP.

Examples:
  vmhuntr serve                         # Start daemon on :8000
  vmhuntr start                         # Begin hunting via the local daemon
  vmhuntr status                        # Show the current attempt and status
  vmhuntr status --api-url=http://remote:8000  # Remote status`,
	}

	root.PersistentFlags().StringVar(&flags.APIUrl, "api-url", "http://localhost:8000", "daemon URL (e.g. http://host:8000)")
	root.PersistentFlags().DurationVar(&flags.APITimeout, "api-timeout", 10*time.Second, "request timeout")

	return root
}

// createServeCommand creates the serve subcommand.
func createServeCommand(cmd command, flags *ServeFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the vmhuntr daemon",
		Long: `Start the vmhuntr daemon server. Configuration is read from OCI_*
environment variables; an optional .env file is loaded first.

Examples:
  vmhuntr serve                                 # Listen on :8000
  vmhuntr serve --listen :9000 --env-file prod.env
  vmhuntr serve --metrics-listen :9100          # Separate metrics listener`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Serve(*flags)
		},
	}

	c.Flags().StringVar(&flags.Listen, "listen", ":8000", "address to bind the HTTP server")
	c.Flags().StringVar(&flags.BasePath, "base-path", "", "base path to mount the API under")
	c.Flags().StringVar(&flags.EnvFile, "env-file", ".env", "env file to load before reading configuration")
	c.Flags().StringVar(&flags.ResultFile, "result-file", "", "path of the success record (default vm_creation_result.json)")
	c.Flags().StringVar(&flags.LogDir, "log-dir", "", "directory for rotating daemon logs (stderr only when empty)")
	c.Flags().StringVar(&flags.MetricsListen, "metrics-listen", "", "optional separate address for /metrics")

	return c
}

// createStartCommand creates the start subcommand.
func createStartCommand(cmd command, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Begin a capacity hunt on the daemon",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Start(*flags)
		},
	}
}

// createStopCommand creates the stop subcommand.
func createStopCommand(cmd command, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Request the running hunt to stop",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Stop(*flags)
		},
	}
}

// createStatusCommand creates the status subcommand.
func createStatusCommand(cmd command, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's current hunt status",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Status(*flags)
		},
	}
}

// createLogsCommand creates the logs subcommand.
func createLogsCommand(cmd command, flags *GlobalFlags, logsFlags *LogsFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "logs",
		Short: "Print hunt log entries",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Logs(*flags, *logsFlags)
		},
	}
	c.Flags().IntVar(&logsFlags.Since, "since", 0, "print entries from this index onward")
	return c
}

// createConfigCommand creates the config subcommand.
func createConfigCommand(cmd command, flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show which configuration keys are set (presence only)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Config(*flags)
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/logging"
)

// exitError carries a process exit code out of a command without printing
// anything further.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bucketusage",
		Short:         "bucketusage shows storage usage of a MinIO deployment in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), cfg, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.ConfigPath(), "settings file")

	root.AddCommand(
		newUsageCommand(&configPath),
		newLoginCommand(&configPath),
		newLogoutCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error loading config: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Config path: %s\n", path)
		return cfg, exitError{code: 1}
	}
	return cfg, nil
}

// stderrLogger is the logger for commands that do not own the terminal.
func stderrLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr())
}

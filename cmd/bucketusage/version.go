package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/bucketusage/internal/appupdate"
	"github.com/janekbaraniewski/bucketusage/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		check  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !check {
				if asJSON {
					return writeJSON(out, version.Get())
				}
				fmt.Fprintln(out, "bucketusage "+version.String())
				return nil
			}

			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{CurrentVersion: version.Version})
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}
			if asJSON {
				return writeJSON(out, result)
			}

			fmt.Fprintln(out, "bucketusage "+version.String())
			switch {
			case result.CurrentVersion == "":
				fmt.Fprintln(out, "Development build, update check skipped.")
			case result.UpdateAvailable:
				fmt.Fprintf(out, "Update available: %s → %s\n", result.CurrentVersion, result.LatestVersion)
				fmt.Fprintf(out, "Upgrade with: %s\n", result.UpgradeHint)
			default:
				fmt.Fprintln(out, "Up to date.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
	"github.com/janekbaraniewski/bucketusage/internal/tui"
)

func newUsageCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Fetch usage once and print it",
		Long: "Runs one activation of the usage screen and prints the settled result.\n" +
			"Exits with status 1 when the fetch fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			logger := stderrLogger(cmd)

			fetcher, err := newFetcher(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			ctrl := dashboard.NewController(fetcher, logger)
			vm := ctrl.Run(cmd.Context())
			ctrl.Deactivate()

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, vm); err != nil {
					return err
				}
			} else {
				catalog, _ := tui.LoadCatalog(config.ConfigDir())
				fmt.Fprintln(out, tui.RenderStatic(vm, terminalWidth(out), presentationOptions(cfg, catalog)))
			}

			if vm.ErrorMessage != "" {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view model as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return width
}

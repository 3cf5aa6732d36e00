package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/dashboard"
	"github.com/janekbaraniewski/bucketusage/internal/logging"
	"github.com/janekbaraniewski/bucketusage/internal/tui"
)

func runDashboard(parent context.Context, cfg config.Config, configPath string) error {
	// The TUI owns the terminal, so debug output goes to a file.
	logger, closer, err := logging.NewFile(filepath.Join(config.ConfigDir(), "debug.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Debug log disabled: %v\n", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	catalog, err := tui.LoadCatalog(config.ConfigDir())
	if err != nil {
		logger.Debug().Err(err).Msg("some theme files were skipped")
	}

	fetcher, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ctrl := dashboard.NewController(fetcher, logger)
	model := tui.NewModel(ctx, ctrl, catalog, presentationOptions(cfg, catalog))
	model.SetLogger(logger)
	model.SetThemeSaver(func(name string) error {
		return config.SaveThemeTo(configPath, name)
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	go watchSettings(ctx, configPath, logger, program)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	_, runErr := program.Run()
	// The update loop has stopped; release any fetch still in flight.
	ctrl.Deactivate()
	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

func presentationOptions(cfg config.Config, catalog tui.Catalog) tui.Options {
	endpoint := cfg.Endpoint
	if cfg.Source == config.SourceS3 {
		endpoint = cfg.S3.Endpoint
	}
	return tui.Options{
		Theme:     catalog.Resolve(cfg.Theme),
		TileWidth: cfg.UI.TileWidth,
		Spacing:   cfg.UI.Spacing,
		Endpoint:  endpoint,
	}
}

// watchSettings forwards presentation changes from the settings file. Data
// settings (endpoint, source) only take effect on the next start.
func watchSettings(ctx context.Context, path string, logger zerolog.Logger, program *tea.Program) {
	err := config.Watch(ctx, path, logger, func(cfg config.Config) {
		program.Send(tui.SettingsChangedMsg{
			Theme:     cfg.Theme,
			TileWidth: cfg.UI.TileWidth,
			Spacing:   cfg.UI.Spacing,
		})
	})
	if err != nil {
		logger.Debug().Err(err).Msg("settings watcher stopped")
	}
}

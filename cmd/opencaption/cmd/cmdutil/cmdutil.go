// Package cmdutil holds the state shared by every subcommand: the global
// flags and the application bootstrap.
package cmdutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"opencaption/internal/app"
	"opencaption/internal/config"
)

var (
	ConfigPath string
	Verbose    bool
)

// LoadConfig reads the config selected by --config, falling back to
// DefaultConfigPath. --verbose forces debug logging.
func LoadConfig() (*config.Config, error) {
	path := ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// Bootstrap loads the config and builds the application. The caller must
// invoke the returned cleanup.
func Bootstrap(ctx context.Context) (*app.Application, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	application, cleanup, err := app.InitializeApplication(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, func() {
		cleanup()
		_ = application.Logger.Sync()
	}, nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdpublish/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath      string        // MDPUBLISH_CONFIG: config file name or path
	Theme           string        // MDPUBLISH_THEME: default theme id
	Timeout         time.Duration // MDPUBLISH_TIMEOUT: render and clipboard timeout
	AssetPath       string        // MDPUBLISH_ASSET_PATH: custom asset directory
	HistoryCapacity int           // MDPUBLISH_HISTORY_CAPACITY: undo depth
	ExportDir       string        // MDPUBLISH_EXPORT_DIR: snapshot directory
	OutputDir       string        // MDPUBLISH_OUTPUT_DIR: convert output directory
	ControlURL      string        // MDPUBLISH_CONTROL_URL: running Chrome to attach to
	Workers         int           // MDPUBLISH_WORKERS: parallel workers
}

// knownEnvVars lists valid MDPUBLISH_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPUBLISH_CONFIG":           true,
	"MDPUBLISH_THEME":            true,
	"MDPUBLISH_TIMEOUT":          true,
	"MDPUBLISH_ASSET_PATH":       true,
	"MDPUBLISH_HISTORY_CAPACITY": true,
	"MDPUBLISH_EXPORT_DIR":       true,
	"MDPUBLISH_OUTPUT_DIR":       true,
	"MDPUBLISH_CONTROL_URL":      true,
	"MDPUBLISH_WORKERS":          true,
	"MDPUBLISH_CONTAINER":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDPUBLISH_CONFIG"),
		Theme:      os.Getenv("MDPUBLISH_THEME"),
		AssetPath:  os.Getenv("MDPUBLISH_ASSET_PATH"),
		ExportDir:  os.Getenv("MDPUBLISH_EXPORT_DIR"),
		OutputDir:  os.Getenv("MDPUBLISH_OUTPUT_DIR"),
		ControlURL: os.Getenv("MDPUBLISH_CONTROL_URL"),
	}

	if timeout := os.Getenv("MDPUBLISH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if capacity := os.Getenv("MDPUBLISH_HISTORY_CAPACITY"); capacity != "" {
		if n, err := strconv.Atoi(capacity); err == nil && n > 0 && n <= config.MaxHistoryCapacity {
			cfg.HistoryCapacity = n
		}
	}
	if workers := os.Getenv("MDPUBLISH_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDPUBLISH_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDPUBLISH_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" && cfg.Theme.Default == "" {
		cfg.Theme.Default = env.Theme
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.HistoryCapacity > 0 && cfg.History.Capacity == 0 {
		cfg.History.Capacity = env.HistoryCapacity
	}
	if env.ExportDir != "" && cfg.Export.Dir == "" {
		cfg.Export.Dir = env.ExportDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ControlURL != "" && cfg.Clipboard.Browser.ControlURL == "" {
		cfg.Clipboard.Browser.ControlURL = env.ControlURL
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	flag "github.com/spf13/pflag"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/config"
	"github.com/alnah/go-mdpublish/internal/hints"
)

// Sentinel errors for command setup.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadMarkdown   = errors.New("failed to read markdown file")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// loadConfig reads the config named by the flag or MDPUBLISH_CONFIG and
// layers environment overrides on top. No name means defaults.
func loadConfig(common *commonFlags, envCfg *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)

	// Flags win over env and file.
	if common.theme != "" {
		cfg.Theme.Default = common.theme
	}
	if common.assetPath != "" {
		cfg.Assets.BasePath = common.assetPath
	}
	return cfg, nil
}

// applyClipboardFlags merges clipboard flags into cfg. fs tells explicit
// flags apart from defaults.
func applyClipboardFlags(fs *flag.FlagSet, f *clipboardFlags, cfg *config.Config) {
	if names := splitList(f.strategies); len(names) > 0 {
		cfg.Clipboard.Strategies = names
	}
	if fs.Changed("headless") {
		headless := f.headless
		cfg.Clipboard.Browser.Headless = &headless
	}
	if f.noSandbox {
		cfg.Clipboard.Browser.NoSandbox = true
	}
	if f.controlURL != "" {
		cfg.Clipboard.Browser.ControlURL = f.controlURL
	}
}

// resolveTimeoutWithEnv picks the timeout: flag > env > config. Zero means
// the library default.
func resolveTimeoutWithEnv(flagValue string, envValue, configValue time.Duration) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q (use format like 30s, 2m, 1m30s)", ErrInvalidTimeout, flagValue)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	return configValue, nil
}

// publisherOptions translates the resolved config into library options.
func publisherOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger, env *Environment) ([]mdpublish.Option, error) {
	opts := []mdpublish.Option{
		mdpublish.WithLogger(logger),
		mdpublish.WithTimeout(timeout),
		mdpublish.WithDefaultTheme(cfg.Theme.Default),
		mdpublish.WithHighlightStyle(cfg.Highlight.Style),
		mdpublish.WithRehighlight(cfg.Highlight.Rehighlight...),
		mdpublish.WithThemeColors(cfg.Projection.ThemeColors),
		mdpublish.WithBrowser(clipboard.BrowserOptions{
			Bin:        cfg.Clipboard.Browser.Bin,
			ControlURL: cfg.Clipboard.Browser.ControlURL,
			Headless:   cfg.Clipboard.Browser.IsHeadless(),
			NoSandbox:  cfg.Clipboard.Browser.NoSandbox,
			Timeout:    cfg.Clipboard.Timeout,
		}),
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdpublish.WithAssetPath(cfg.Assets.BasePath))
	}

	if len(cfg.Themes) > 0 {
		themes := make([]mdpublish.Theme, len(cfg.Themes))
		for i, t := range cfg.Themes {
			themes[i] = mdpublish.Theme{
				ID:          t.ID,
				Name:        t.Name,
				CSSFile:     t.CSSFile,
				Description: t.Description,
				Variables:   t.Variables,
			}
		}
		opts = append(opts, mdpublish.WithThemes(themes...))
	}

	if len(cfg.Clipboard.Strategies) > 0 {
		strategies, err := clipboard.StrategiesByName(cfg.Clipboard.Strategies)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mdpublish.WithStrategies(strategies...))
	}

	if env.Surface != nil {
		opts = append(opts, mdpublish.WithSurface(env.Surface))
	}
	return opts, nil
}

// setup is everything a command needs after flags are parsed.
type setup struct {
	cfg     *config.Config
	envCfg  *envConfig
	logger  *slog.Logger
	timeout time.Duration
	opts    []mdpublish.Option
}

// prepare loads config, merges env and flags, and builds publisher options.
// clipFS and clip may be nil for commands that never copy.
func prepare(common *commonFlags, clipFS *flag.FlagSet, clip *clipboardFlags, env *Environment) (*setup, error) {
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(common, envCfg)
	if err != nil {
		return nil, err
	}
	if clip != nil {
		applyClipboardFlags(clipFS, clip, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeoutWithEnv(common.timeout, envCfg.Timeout, cfg.Clipboard.Timeout)
	if err != nil {
		return nil, err
	}

	logger := newLogger(env.Stderr, common.quiet, common.verbose)
	opts, err := publisherOptions(cfg, timeout, logger, env)
	if err != nil {
		return nil, err
	}
	return &setup{cfg: cfg, envCfg: envCfg, logger: logger, timeout: timeout, opts: opts}, nil
}

// newPublisher builds a publisher and checks that an explicitly requested
// theme exists.
func (s *setup) newPublisher() (*mdpublish.Publisher, error) {
	pub, err := mdpublish.NewPublisher(s.opts...)
	if err != nil {
		return nil, err
	}
	if id := s.cfg.Theme.Default; id != "" {
		if err := checkTheme(pub, id); err != nil {
			_ = pub.Close()
			return nil, err
		}
	}
	return pub, nil
}

// checkTheme reports ErrThemeNotFound, with the available ids, for an
// unregistered theme.
func checkTheme(pub *mdpublish.Publisher, id string) error {
	ids := pub.ThemeIDs()
	if slices.Contains(ids, id) {
		return nil
	}
	return fmt.Errorf("%w: %q%s", mdpublish.ErrThemeNotFound, id, hints.ForThemeNotFound(ids))
}

// readInput reads markdown from path, or from stdin when path is "-" or
// empty and stdin is not a terminal.
func readInput(path string, env *Environment) (string, error) {
	if path == "" || path == "-" {
		if path == "" && isTerminal(env.Stdin) {
			return "", ErrNoInput
		}
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

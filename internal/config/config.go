// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpublish/internal/assets"
	"github.com/alnah/go-mdpublish/internal/fileutil"
	"github.com/alnah/go-mdpublish/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for
// named configs.
const AppDirName = "go-mdpublish"

// Field length limits.
const (
	MaxThemeIDLength     = 50
	MaxThemeNameLength   = 100
	MaxDescriptionLength = 500
	MaxVariableLength    = 200  // CSS value such as "1px solid #ddd"
	MaxPathLength        = 4096 // PATH_MAX
	MaxURLLength         = 2048 // Browser limit
	MaxNameFormatLength  = 50
	MaxLanguageLength    = 30
)

// Limits on numeric settings.
const (
	MaxHistoryCapacity  = 10000
	MaxClipboardTimeout = 5 * time.Minute
)

// Config holds all configuration for the publisher and the CLI.
type Config struct {
	Theme      ThemeConfig      `yaml:"theme"`
	Themes     []ThemeEntry     `yaml:"themes"`
	Assets     AssetsConfig     `yaml:"assets"`
	History    HistoryConfig    `yaml:"history"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Projection ProjectionConfig `yaml:"projection"`
	Clipboard  ClipboardConfig  `yaml:"clipboard"`
	Export     ExportConfig     `yaml:"export"`
	Output     OutputConfig     `yaml:"output"`
}

// ThemeConfig selects the active theme.
type ThemeConfig struct {
	Default string `yaml:"default"` // Empty = first registered theme
}

// ThemeEntry declares a custom theme registered after the built-ins.
type ThemeEntry struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	CSSFile     string            `yaml:"cssFile"` // Resolved through assets.basePath
	Description string            `yaml:"description"`
	Variables   map[string]string `yaml:"variables"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// HistoryConfig sizes the undo log.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"` // 0 = default (100)
}

// HighlightConfig tunes code block normalization.
type HighlightConfig struct {
	Rehighlight []string `yaml:"rehighlight"` // Languages always re-highlighted (default: java)
	Style       string   `yaml:"style"`       // chroma style name
}

// ProjectionConfig tunes inline-style projection.
type ProjectionConfig struct {
	ThemeColors bool `yaml:"themeColors"` // Take text colours from the active theme
}

// ClipboardConfig defines clipboard delivery.
type ClipboardConfig struct {
	Strategies []string      `yaml:"strategies"` // Ordered; empty = structured, selection
	Timeout    time.Duration `yaml:"timeout"`    // 0 = default
	Browser    BrowserConfig `yaml:"browser"`
}

// BrowserConfig configures the Chrome instance used for clipboard writes.
type BrowserConfig struct {
	Bin        string `yaml:"bin"`
	ControlURL string `yaml:"controlURL"`
	Headless   *bool  `yaml:"headless"` // nil = true
	NoSandbox  bool   `yaml:"noSandbox"`
}

// ExportConfig defines snapshot export.
type ExportConfig struct {
	Dir        string `yaml:"dir"`        // Empty = current directory
	NameFormat string `yaml:"nameFormat"` // dateutil tokens, empty = default
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// IsHeadless reports the effective headless setting.
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless == nil || *b.Headless
}

// Validate checks field lengths and value ranges. Called by LoadConfig, and
// available to callers that build a Config in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("theme.default", c.Theme.Default, MaxThemeIDLength); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Themes))
	for i, t := range c.Themes {
		if err := t.validate(fmt.Sprintf("themes[%d]", i)); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: themes[%d].id: duplicate id %q", ErrInvalidField, i, t.ID)
		}
		seen[t.ID] = true
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if c.History.Capacity < 0 || c.History.Capacity > MaxHistoryCapacity {
		return fmt.Errorf("%w: history.capacity: must be between 0 and %d, got %d", ErrInvalidField, MaxHistoryCapacity, c.History.Capacity)
	}

	for i, lang := range c.Highlight.Rehighlight {
		if err := validateFieldLength(fmt.Sprintf("highlight.rehighlight[%d]", i), lang, MaxLanguageLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxThemeIDLength); err != nil {
		return err
	}

	for i, s := range c.Clipboard.Strategies {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "structured", "selection", "system-text":
			// valid
		default:
			return fmt.Errorf("%w: clipboard.strategies[%d]: unknown strategy %q (must be structured, selection, or system-text)", ErrInvalidField, i, s)
		}
	}
	if c.Clipboard.Timeout < 0 || c.Clipboard.Timeout > MaxClipboardTimeout {
		return fmt.Errorf("%w: clipboard.timeout: must be between 0 and %s, got %s", ErrInvalidField, MaxClipboardTimeout, c.Clipboard.Timeout)
	}
	if err := validateFieldLength("clipboard.browser.bin", c.Clipboard.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("clipboard.browser.controlURL", c.Clipboard.Browser.ControlURL, MaxURLLength); err != nil {
		return err
	}

	if err := validateFieldLength("export.dir", c.Export.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.nameFormat", c.Export.NameFormat, MaxNameFormatLength); err != nil {
		return err
	}
	return validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength)
}

func (t ThemeEntry) validate(field string) error {
	if t.ID == "" {
		return fmt.Errorf("%w: %s.id: required", ErrInvalidField, field)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: %s.name: required", ErrInvalidField, field)
	}
	if err := validateFieldLength(field+".id", t.ID, MaxThemeIDLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".name", t.Name, MaxThemeNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".description", t.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if t.CSSFile != "" {
		if err := assets.ValidateAssetName(assets.StyleNameFromFile(t.CSSFile)); err != nil {
			return fmt.Errorf("%s.cssFile: %w", field, err)
		}
	}
	for k, v := range t.Variables {
		if err := validateFieldLength(field+".variables."+k, v, MaxVariableLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Highlight: HighlightConfig{Rehighlight: []string{"java"}},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
// Tries extensions .yaml then .yml, in the current directory then
// ~/.config/go-mdpublish/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

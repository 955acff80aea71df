package mdpublish

import (
	"log/slog"
	"time"

	"github.com/alnah/go-mdpublish/internal/assets"
	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/pipeline"
)

// Default timeouts.
const (
	defaultTimeout = 30 * time.Second
)

// Option configures a Publisher.
type Option func(*Publisher)

// publisherConfig holds settings resolved when the publisher is built.
type publisherConfig struct {
	timeout        time.Duration
	assetPath      string
	highlightStyle string
	rehighlight    []string
	rehighlightSet bool
	themeColors    bool
	strategies     []clipboard.Strategy
	browser        clipboard.BrowserOptions
	themes         []Theme
	defaultTheme   string
}

// WithTimeout bounds rendering and each clipboard commit.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.cfg.timeout = d
		}
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithAssetPath loads stylesheets and templates from dir, falling back to
// the embedded assets for anything it does not contain.
func WithAssetPath(dir string) Option {
	return func(p *Publisher) { p.cfg.assetPath = dir }
}

// WithAssetLoader replaces the asset loader.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(p *Publisher) { p.assets = l }
}

// WithThemes registers custom themes after the built-in set.
func WithThemes(themes ...Theme) Option {
	return func(p *Publisher) { p.cfg.themes = append(p.cfg.themes, themes...) }
}

// WithDefaultTheme selects the theme new sessions start with.
func WithDefaultTheme(id string) Option {
	return func(p *Publisher) { p.cfg.defaultTheme = id }
}

// WithHighlighter replaces the syntax highlighter used by the normalizer.
func WithHighlighter(h pipeline.Highlighter) Option {
	return func(p *Publisher) { p.highlighter = h }
}

// WithHighlightStyle selects the chroma style of the default highlighter.
func WithHighlightStyle(style string) Option {
	return func(p *Publisher) { p.cfg.highlightStyle = style }
}

// WithRehighlight sets the languages that are always re-highlighted.
func WithRehighlight(langs ...string) Option {
	return func(p *Publisher) {
		p.cfg.rehighlight = langs
		p.cfg.rehighlightSet = true
	}
}

// WithThemeColors projects heading, text, link, quote, and table colours
// from the active theme instead of the fixed palette.
func WithThemeColors(enabled bool) Option {
	return func(p *Publisher) { p.cfg.themeColors = enabled }
}

// WithStrategies sets the clipboard delivery chain.
func WithStrategies(strategies ...clipboard.Strategy) Option {
	return func(p *Publisher) { p.cfg.strategies = strategies }
}

// WithBrowser configures the Chrome instance used for clipboard writes.
func WithBrowser(opts clipboard.BrowserOptions) Option {
	return func(p *Publisher) { p.cfg.browser = opts }
}

// WithSurface replaces the clipboard surface, e.g. with a fake in tests.
func WithSurface(s clipboard.Surface) Option {
	return func(p *Publisher) { p.surface = s }
}

// WithHTMLConverter replaces the Markdown renderer.
func WithHTMLConverter(c pipeline.HTMLConverter) Option {
	return func(p *Publisher) { p.converter = c }
}

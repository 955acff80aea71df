package mdpublish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/assets"
	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/dom"
	"github.com/alnah/go-mdpublish/internal/pipeline"
	"github.com/alnah/go-mdpublish/internal/theme"
)

// ArticleClass is the class of the rendered article scope.
const ArticleClass = "markdown-body"

// Compile-time interface checks
var (
	_ pipeline.Preprocessor  = pipeline.MarkdownPreprocessor{}
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Highlighter   = (*pipeline.ChromaHighlighter)(nil)
	_ clipboard.Surface      = (*clipboard.BrowserSurface)(nil)
)

// Publisher renders Markdown into themed trees and transforms them into
// clipboard-portable markup. Rendering is stateless; a Publisher may be
// shared by sessions that do not copy concurrently.
type Publisher struct {
	cfg    publisherConfig
	logger *slog.Logger

	registry     *theme.Registry
	assets       assets.AssetLoader
	preprocessor pipeline.Preprocessor
	converter    pipeline.HTMLConverter
	highlighter  pipeline.Highlighter
	normalizer   *pipeline.Normalizer
	projector    *pipeline.Projector
	page         *pipeline.PageRenderer
	surface      clipboard.Surface
	committer    *clipboard.Committer
}

// NewPublisher creates a Publisher with the built-in themes registered.
// The browser behind the default clipboard surface is launched on first copy.
func NewPublisher(opts ...Option) (*Publisher, error) {
	p := &Publisher{
		cfg:          publisherConfig{timeout: defaultTimeout},
		logger:       slog.Default(),
		assets:       assets.NewEmbeddedLoader(),
		preprocessor: pipeline.MarkdownPreprocessor{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(p.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		p.assets = resolver
	}

	p.registry = theme.NewRegistry(p.logger)
	theme.RegisterBuiltin(p.registry)
	for _, t := range p.cfg.themes {
		if err := theme.Validate(t); err != nil {
			return nil, err
		}
		p.registry.Register(t)
	}

	if p.converter == nil {
		p.converter = pipeline.NewGoldmarkConverter()
	}
	if p.highlighter == nil {
		p.highlighter = pipeline.NewChromaHighlighter(p.cfg.highlightStyle)
	}
	normOpts := []pipeline.NormalizerOption{
		pipeline.WithHighlighter(p.highlighter),
		pipeline.WithNormalizerLogger(p.logger),
	}
	if p.cfg.rehighlightSet {
		normOpts = append(normOpts, pipeline.WithRehighlight(p.cfg.rehighlight...))
	}
	p.normalizer = pipeline.NewNormalizer(normOpts...)
	p.projector = pipeline.NewProjector(pipeline.DefaultPalette())

	tmpl, err := p.assets.LoadTemplate(assets.PreviewTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading preview template: %w", err)
	}
	if p.page, err = pipeline.NewPageRenderer(tmpl); err != nil {
		return nil, err
	}

	if p.surface == nil {
		p.surface = clipboard.NewBrowserSurface(p.cfg.browser, p.logger)
	}
	commitOpts := []clipboard.Option{
		clipboard.WithLogger(p.logger),
		clipboard.WithTimeout(p.cfg.timeout),
	}
	if len(p.cfg.strategies) > 0 {
		commitOpts = append(commitOpts, clipboard.WithStrategies(p.cfg.strategies...))
	}
	p.committer = clipboard.NewCommitter(p.surface, commitOpts...)

	p.logger = p.logger.With("component", "publisher")
	return p, nil
}

// Themes lists the registered themes in registration order.
func (p *Publisher) Themes() []Theme {
	return p.registry.List()
}

// ThemeIDs lists the registered theme ids in registration order.
func (p *Publisher) ThemeIDs() []string {
	themes := p.registry.List()
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}

// ResolveTheme returns the theme for id, or the first registered theme
// when id is unknown. The boolean reports whether id matched.
func (p *Publisher) ResolveTheme(id string) (Theme, bool) {
	return p.registry.Resolve(id)
}

// DefaultTheme returns the theme sessions start with.
func (p *Publisher) DefaultTheme() Theme {
	if p.cfg.defaultTheme != "" {
		th, _ := p.registry.Resolve(p.cfg.defaultTheme)
		return th
	}
	th, _ := p.registry.Get(theme.DefaultID)
	return th
}

// Render turns markdown into a themed article tree. A theme named in the
// document's front matter takes precedence over themeID when registered;
// an empty themeID selects the default theme.
func (p *Publisher) Render(ctx context.Context, markdown, themeID string) (*Rendering, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyContent
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout)
	defer cancel()

	md := p.preprocessor.Preprocess(ctx, markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := p.converter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	fragment, err := dom.ParseFragment(doc.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	article := dom.NewElement("article", html.Attribute{Key: "class", Val: ArticleClass})
	dom.MoveChildren(article, fragment)

	if fm := doc.Theme(); fm != "" {
		if _, ok := p.registry.Get(fm); ok {
			themeID = fm
		} else {
			p.logger.Warn("front matter names an unknown theme", "theme", fm)
		}
	}
	if themeID == "" {
		themeID = p.DefaultTheme().ID
	}
	th, _ := p.registry.Resolve(themeID)
	if err := p.registry.Apply(th.ID, article); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return newRendering(doc, article, th), nil
}

// ApplyTheme re-themes an existing rendering in place.
func (p *Publisher) ApplyTheme(r *Rendering, id string) error {
	if err := p.registry.Apply(id, r.Article); err != nil {
		return err
	}
	th, _ := p.registry.Get(id)
	r.Theme = th
	return nil
}

// Transform normalizes and projects a private clone of the article and
// returns the serialized clipboard markup. The rendering is not modified.
func (p *Publisher) Transform(ctx context.Context, r *Rendering) (string, error) {
	clone := dom.Clone(r.Article)
	if err := p.normalizer.Normalize(ctx, clone); err != nil {
		return "", err
	}
	if err := p.projectorFor(r.Theme).Project(ctx, clone); err != nil {
		return "", err
	}
	return dom.Render(clone)
}

func (p *Publisher) projectorFor(th Theme) *pipeline.Projector {
	if !p.cfg.themeColors {
		return p.projector
	}
	return pipeline.NewProjector(pipeline.PaletteFromTheme(th))
}

// Publish renders markdown and returns paste-ready markup without touching
// the clipboard.
func (p *Publisher) Publish(ctx context.Context, markdown, themeID string) (string, error) {
	r, err := p.Render(ctx, markdown, themeID)
	if err != nil {
		return "", err
	}
	return p.Transform(ctx, r)
}

// Page wraps a rendering in the standalone preview page: the theme's
// stylesheet, the scope class and variables, and the article body. Relative
// image and link paths are resolved against sourceDir.
func (p *Publisher) Page(ctx context.Context, r *Rendering, sourceDir string) (string, error) {
	body := dom.Clone(r.Article)
	if err := pipeline.RewriteRelativePaths(body, sourceDir); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	inner, err := dom.RenderInner(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	css := ""
	if r.Theme.CSSFile != "" {
		css, err = p.assets.LoadStyle(assets.StyleNameFromFile(r.Theme.CSSFile))
		if err != nil {
			p.logger.Warn("theme stylesheet unavailable", "theme", r.Theme.ID, "error", err)
			css = ""
		}
	}

	return p.page.Render(ctx, pipeline.PageData{
		Title:      r.Title,
		CSS:        css,
		ThemeClass: r.Theme.Class(),
		ScopeStyle: theme.ScopeStyle(r.Theme),
		Body:       inner,
	})
}

// Deliver commits a payload through the clipboard strategy chain.
func (p *Publisher) Deliver(ctx context.Context, payload clipboard.Payload) CopyResult {
	return p.committer.Commit(ctx, payload)
}

// Close releases the browser behind the clipboard surface, if any.
func (p *Publisher) Close() error {
	if c, ok := p.surface.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// copyError summarises a failed delivery for callers that want an error.
func copyError(res CopyResult) error {
	errs := make([]error, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Strategy, a.Err))
		}
	}
	if len(errs) == 0 {
		return ErrCopyFailed
	}
	return fmt.Errorf("%w: %w", ErrCopyFailed, errors.Join(errs...))
}

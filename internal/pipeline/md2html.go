package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Document is the rendered form of one markdown source.
type Document struct {
	// HTML is the body fragment, without <html> or <body> wrappers.
	HTML string
	// Meta holds the front matter keys, nil when the source has none.
	Meta map[string]any
}

// Title returns the front matter title, if any.
func (d Document) Title() string {
	return d.metaString("title")
}

// Theme returns the front matter theme id, if any.
func (d Document) Theme() string {
	return d.metaString("theme")
}

func (d Document) metaString(key string) string {
	v, ok := d.Meta[key]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (Document, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes, front
// matter, and class-based syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithAllClasses(true),
					chromahtml.PreventSurroundingPre(true),
				),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// No WithUnsafe: ==highlight== goes through placeholders instead.
			html.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// codeBlockWrapper emits <pre><code class="language-x"> around every fenced
// block. Highlighted blocks also get the "chroma" class on <pre>.
func codeBlockWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return
	}

	if ctx.Highlighted() {
		_, _ = w.WriteString(`<pre class="chroma"><code`)
	} else {
		_, _ = w.WriteString("<pre><code")
	}
	lang, _ := ctx.Language()
	if len(bytes.TrimSpace(lang)) > 0 {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(bytes.ToLower(bytes.TrimSpace(lang))))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
}

// ToHTML converts Markdown content to a body fragment plus its front matter.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	type result struct {
		doc Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		pc := parser.NewContext()
		if err := c.md.Convert([]byte(content), &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		doc := Document{HTML: ConvertMarkPlaceholders(buf.String())}
		if m := meta.Get(pc); len(m) > 0 {
			doc.Meta = m
		}
		done <- result{doc: doc}
	}()

	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)

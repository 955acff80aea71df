package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdpublish/internal/dom"
)

// CompatStyleAttr mirrors the inline style for editors that keep their own
// copy of it and drop the style attribute on paste.
const CompatStyleAttr = "data-mce-style"

// DefaultRehighlight lists the languages that are always re-highlighted.
var DefaultRehighlight = []string{"java"}

// annotationPattern finds @Name tokens that start the text or follow a
// character that cannot be part of an identifier.
var annotationPattern = regexp.MustCompile(`(?:^|[^\w@])(@[A-Za-z_]\w*)`)

// Normalizer makes syntax highlighting survive a host editor's sanitizer by
// turning token classes into inline styles, twice: on the token element and
// on a wrapper span carrying the compatibility attribute.
type Normalizer struct {
	highlighter Highlighter
	rehighlight map[string]bool
	rules       []HighlightRule
	logger      *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithHighlighter sets the external highlighter.
func WithHighlighter(h Highlighter) NormalizerOption {
	return func(n *Normalizer) { n.highlighter = h }
}

// WithRehighlight replaces the set of languages that are always re-highlighted.
func WithRehighlight(langs ...string) NormalizerOption {
	return func(n *Normalizer) {
		n.rehighlight = make(map[string]bool, len(langs))
		for _, l := range langs {
			n.rehighlight[strings.ToLower(strings.TrimSpace(l))] = true
		}
	}
}

// WithRules replaces the highlight rule table.
func WithRules(rules []HighlightRule) NormalizerOption {
	return func(n *Normalizer) { n.rules = rules }
}

// WithNormalizerLogger sets the logger.
func WithNormalizerLogger(l *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNormalizer creates a Normalizer using chroma and the default rules.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		highlighter: NewChromaHighlighter(""),
		rules:       DefaultRules,
		logger:      slog.Default(),
	}
	WithRehighlight(DefaultRehighlight...)(n)
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "normalizer")
	return n
}

// Normalize rewrites every code block below root in place.
func (n *Normalizer) Normalize(ctx context.Context, root *html.Node) error {
	blocks := dom.Select(root).Find("pre > code").Nodes

	for _, code := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		lang := CodeLanguage(code)
		if lang == "" {
			continue
		}
		if n.rehighlight[lang] || !hasTokenSpans(code) {
			n.rehighlightBlock(code, lang)
		}
	}

	for _, code := range blocks {
		n.applyRules(code)
	}
	return nil
}

// rehighlightBlock replaces the block's markup with fresh highlighter output.
// On failure the block keeps its markup.
func (n *Normalizer) rehighlightBlock(code *html.Node, lang string) {
	source := dom.TextContent(code)
	out, err := n.highlighter.Highlight(source, lang)
	if err != nil {
		n.logger.Warn("re-highlighting failed, keeping markup", "lang", lang, "error", err)
		return
	}

	nodes, err := html.ParseFragment(strings.NewReader(out), code)
	if err != nil {
		n.logger.Warn("highlighter output unparsable, keeping markup", "lang", lang, "error", err)
		return
	}

	dom.RemoveChildren(code)
	for _, c := range nodes {
		code.AppendChild(c)
	}
	if pre := code.Parent; pre != nil {
		dom.Select(pre).AddClass("chroma")
	}

	if n.rehighlight[lang] {
		annotate(code)
	}
}

// annotate wraps @Name tokens that the highlighter left unclassified in a
// meta span. Text inside meta, comment and string spans is skipped, so a
// token ends up inside exactly one meta span.
//
// This works on the highlighter's text output, not its token stream, and
// can misfire on unusual lexers.
func annotate(code *html.Node) {
	var texts []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				texts = append(texts, c)
			case c.Type == html.ElementNode && !protectedSpan(c):
				walk(c)
			}
		}
	}
	walk(code)

	for _, t := range texts {
		splitAnnotations(t)
	}
}

func protectedSpan(n *html.Node) bool {
	for _, c := range dom.Classes(n) {
		if c == metaClass {
			return true
		}
		for _, p := range commentClasses {
			if c == p {
				return true
			}
		}
		for _, p := range stringClasses {
			if c == p {
				return true
			}
		}
	}
	return false
}

// splitAnnotations replaces text node t with text and meta-span pieces.
func splitAnnotations(t *html.Node) {
	matches := annotationPattern.FindAllStringSubmatchIndex(t.Data, -1)
	if len(matches) == 0 {
		return
	}

	parent := t.Parent
	text := t.Data
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		if start > last {
			parent.InsertBefore(dom.NewText(text[last:start]), t)
		}
		span := dom.NewElement("span", html.Attribute{Key: "class", Val: metaClass})
		span.AppendChild(dom.NewText(text[start:end]))
		parent.InsertBefore(span, t)
		last = end
	}
	if last < len(text) {
		parent.InsertBefore(dom.NewText(text[last:]), t)
	}
	parent.RemoveChild(t)
}

// applyRules styles every token element of one block, then gives it a
// single styled wrapper span. Running it again refreshes the wrapper.
func (n *Normalizer) applyRules(code *html.Node) {
	var tokens []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			tokens = append(tokens, c)
			walk(c)
		}
	}
	walk(code)

	for _, rule := range n.rules {
		decls := rule.Decls()
		for _, tok := range tokens {
			if rule.Matches(tok) {
				styleToken(tok, decls)
			}
		}
	}
}

func styleToken(tok *html.Node, decls []dom.Decl) {
	dom.SetStyle(tok, decls...)

	wrapper := soleWrapper(tok)
	if wrapper == nil {
		wrapper = dom.NewElement("span")
		dom.MoveChildren(wrapper, tok)
		tok.AppendChild(wrapper)
	}
	dom.SetStyle(wrapper, decls...)
	style, _ := dom.Attr(wrapper, "style")
	dom.SetAttr(wrapper, CompatStyleAttr, style)
}

// soleWrapper returns the compatibility wrapper if it is tok's only child.
func soleWrapper(tok *html.Node) *html.Node {
	c := tok.FirstChild
	if c == nil || c.NextSibling != nil || c.Type != html.ElementNode || c.DataAtom != atom.Span {
		return nil
	}
	if _, ok := dom.Attr(c, CompatStyleAttr); !ok {
		return nil
	}
	return c
}

// CodeLanguage returns the lower-cased language tag of a code element.
func CodeLanguage(code *html.Node) string {
	for _, c := range dom.Classes(code) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
			return strings.ToLower(lang)
		}
	}
	return ""
}

// hasTokenSpans reports whether code already contains classed spans.
func hasTokenSpans(code *html.Node) bool {
	return dom.Select(code).Find("span[class]").Length() > 0
}

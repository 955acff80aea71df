package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdpublish/internal/dom"
	"github.com/alnah/go-mdpublish/internal/theme"
)

// Class names the projector owns.
const (
	ScrollContainerClass = "code-scroll"
	BadgeClass           = "lang-label"
)

const monoFont = "Consolas, Monaco, monospace"

// Palette holds the colours the projector writes. Code block colours are
// fixed because the highlight rules assume a dark background.
type Palette struct {
	Heading     string
	Text        string
	Link        string
	Quote       string
	QuoteBorder string
	TableBorder string
	TableHeader string
}

// DefaultPalette returns the colours used when theme colours are not projected.
func DefaultPalette() Palette {
	return Palette{
		Heading:     "#333",
		Text:        "#3f3f3f",
		Link:        "#576b95",
		Quote:       "#777",
		QuoteBorder: "#dfe2e5",
		TableBorder: "#ddd",
		TableHeader: "#f2f2f2",
	}
}

// PaletteFromTheme overrides the default palette with a theme's variables.
func PaletteFromTheme(t theme.Theme) Palette {
	p := DefaultPalette()
	p.Heading = t.Var("heading-color", p.Heading)
	p.Text = t.Var("text-color", p.Text)
	p.Link = t.Var("link-color", p.Link)
	p.Quote = t.Var("blockquote-color", p.Quote)
	p.QuoteBorder = t.Var("blockquote-border", p.QuoteBorder)
	p.TableBorder = t.Var("table-border", p.TableBorder)
	p.TableHeader = t.Var("table-header-bg", p.TableHeader)
	return p
}

// Projector writes every visual property of a tree into inline style
// attributes so the tree renders the same without any stylesheet.
type Projector struct {
	tags map[atom.Atom][]dom.Decl
}

// NewProjector creates a projector for palette p.
func NewProjector(p Palette) *Projector {
	heading := func(size, margin string) []dom.Decl {
		return []dom.Decl{
			{Prop: "font-size", Value: size},
			{Prop: "font-weight", Value: "bold"},
			{Prop: "margin", Value: margin},
			{Prop: "color", Value: p.Heading},
		}
	}
	list := []dom.Decl{{Prop: "padding-left", Value: "20px"}, {Prop: "margin", Value: "10px 0"}}
	cell := []dom.Decl{
		{Prop: "border", Value: "1px solid " + p.TableBorder},
		{Prop: "padding", Value: "8px"},
		{Prop: "text-align", Value: "left"},
	}

	return &Projector{tags: map[atom.Atom][]dom.Decl{
		atom.H1: heading("24px", "20px 0 10px 0"),
		atom.H2: heading("20px", "18px 0 10px 0"),
		atom.H3: heading("18px", "16px 0 8px 0"),
		atom.P: {
			{Prop: "margin", Value: "10px 0"},
			{Prop: "line-height", Value: "1.6"},
			{Prop: "color", Value: p.Text},
		},
		atom.Blockquote: {
			{Prop: "border-left", Value: "4px solid " + p.QuoteBorder},
			{Prop: "padding", Value: "0 15px"},
			{Prop: "color", Value: p.Quote},
			{Prop: "margin", Value: "10px 0"},
			{Prop: "background-color", Value: "#f8f8f8"},
		},
		atom.Ul: list,
		atom.Ol: list,
		atom.Li: {
			{Prop: "margin", Value: "5px 0"},
			{Prop: "color", Value: p.Text},
		},
		atom.Strong: {{Prop: "font-weight", Value: "bold"}},
		atom.B:      {{Prop: "font-weight", Value: "bold"}},
		atom.Em:     {{Prop: "font-style", Value: "italic"}},
		atom.I:      {{Prop: "font-style", Value: "italic"}},
		atom.Del:    {{Prop: "text-decoration", Value: "line-through"}},
		atom.S:      {{Prop: "text-decoration", Value: "line-through"}},
		atom.Table: {
			{Prop: "border-collapse", Value: "collapse"},
			{Prop: "width", Value: "100%"},
			{Prop: "margin", Value: "15px 0"},
		},
		atom.Td: cell,
		atom.Th: append(append([]dom.Decl{}, cell...),
			dom.Decl{Prop: "background-color", Value: p.TableHeader},
			dom.Decl{Prop: "font-weight", Value: "bold"},
		),
		atom.A: {
			{Prop: "color", Value: p.Link},
			{Prop: "text-decoration", Value: "none"},
		},
	}}
}

var (
	blockCodeDecls = []dom.Decl{
		{Prop: "font-family", Value: monoFont},
		{Prop: "background-color", Value: "transparent"},
		{Prop: "padding", Value: "0"},
		{Prop: "color", Value: "#f8f8f2"},
	}
	inlineCodeDecls = []dom.Decl{
		{Prop: "font-family", Value: monoFont},
		{Prop: "background-color", Value: "#f0f0f0"},
		{Prop: "padding", Value: "2px 4px"},
		{Prop: "border-radius", Value: "3px"},
		{Prop: "font-size", Value: "90%"},
		{Prop: "color", Value: "#333"},
	}
	scrollContainerDecls = []dom.Decl{
		{Prop: "background-color", Value: "#282c34"},
		{Prop: "border", Value: "1px solid #444"},
		{Prop: "border-radius", Value: "6px"},
		{Prop: "box-shadow", Value: "0 2px 8px rgba(0, 0, 0, 0.15)"},
		{Prop: "margin", Value: "16px 0"},
		{Prop: "overflow-x", Value: "auto"},
		{Prop: "position", Value: "relative"},
	}
	preDecls = []dom.Decl{
		{Prop: "margin", Value: "0"},
		{Prop: "padding", Value: "16px"},
		{Prop: "background-color", Value: "transparent"},
		{Prop: "border", Value: "none"},
		{Prop: "display", Value: "inline-block"},
		{Prop: "min-width", Value: "100%"},
		{Prop: "width", Value: "max-content"},
		{Prop: "box-sizing", Value: "border-box"},
		{Prop: "white-space", Value: "pre"},
		{Prop: "font-family", Value: monoFont},
		{Prop: "font-size", Value: "14px"},
		{Prop: "line-height", Value: "1.5"},
		{Prop: "color", Value: "#f8f8f2"},
	}
)

// Project rewrites the descendants of root in place. Running it twice
// yields the same tree as running it once.
func (p *Projector) Project(ctx context.Context, root *html.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			p.projectElement(c)
			walk(c)
		}
	}
	walk(root)

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, pre := range dom.Select(root).Find("pre").Nodes {
		projectCodeBlock(pre)
	}
	return nil
}

func (p *Projector) projectElement(n *html.Node) {
	switch n.DataAtom {
	case atom.Code:
		if n.Parent != nil && n.Parent.DataAtom == atom.Pre {
			dom.SetStyle(n, blockCodeDecls...)
		} else {
			dom.SetStyle(n, inlineCodeDecls...)
		}
	case atom.Table:
		dom.SetStyle(n, p.tags[atom.Table]...)
		dom.SetAttr(n, "border", "1")
	default:
		if decls, ok := p.tags[n.DataAtom]; ok {
			dom.SetStyle(n, decls...)
		}
	}
}

// projectCodeBlock gives pre a scroll container, a neutral box, the
// compatibility attributes, and a fresh language badge.
func projectCodeBlock(pre *html.Node) {
	container := pre.Parent
	if container == nil || !isScrollContainer(container) {
		container = dom.NewElement("section", html.Attribute{Key: "class", Val: ScrollContainerClass})
		dom.Wrap(pre, container)
	}
	dom.SetStyle(container, scrollContainerDecls...)

	dom.SetStyle(pre, preDecls...)
	dom.SetAttr(pre, "data-wiz-code-container", "true")
	dom.SetAttr(pre, "data-mode", "HTML")

	for c := pre.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && dom.HasClass(c, BadgeClass) {
			pre.RemoveChild(c)
		}
		c = next
	}

	lang := ""
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Code {
			lang = CodeLanguage(c)
			break
		}
	}
	if lang == "" {
		return
	}
	pre.InsertBefore(newBadge(lang), pre.FirstChild)
}

func isScrollContainer(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Section && dom.HasClass(n, ScrollContainerClass)
}

func newBadge(lang string) *html.Node {
	bg, fg := "#607D8B", "#fff"
	if lang == "java" {
		bg, fg = "#ff8c00", "#282c34"
	}

	badge := dom.NewElement("div", html.Attribute{Key: "class", Val: BadgeClass})
	badge.AppendChild(dom.NewText(capitalize(lang)))
	dom.SetStyle(badge,
		dom.Decl{Prop: "position", Value: "absolute"},
		dom.Decl{Prop: "top", Value: "0"},
		dom.Decl{Prop: "right", Value: "0"},
		dom.Decl{Prop: "background-color", Value: bg},
		dom.Decl{Prop: "color", Value: fg},
		dom.Decl{Prop: "padding", Value: "2px 8px"},
		dom.Decl{Prop: "font-size", Value: "12px"},
		dom.Decl{Prop: "border-bottom-left-radius", Value: "5px"},
		dom.Decl{Prop: "font-weight", Value: "bold"},
		dom.Decl{Prop: "z-index", Value: "5"},
	)
	style, _ := dom.Attr(badge, "style")
	dom.SetAttr(badge, CompatStyleAttr, style)
	return badge
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

package mdpublish

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/pipeline"
	"github.com/alnah/go-mdpublish/internal/theme"
)

// Theme is a named presentation descriptor: a stylesheet plus variables
// applied to the article scope as CSS custom properties.
type Theme = theme.Theme

// CopyResult reports which clipboard strategy delivered a copy and why the
// others failed.
type CopyResult = clipboard.Result

// Rendering is one rendered document: the themed article tree plus the
// metadata read from its front matter.
type Rendering struct {
	// Article is the <article class="markdown-body theme-..."> root.
	Article *html.Node
	// Theme is the theme applied to Article.
	Theme Theme
	// Title comes from front matter, empty when absent.
	Title string
	// Meta holds all front matter keys.
	Meta map[string]any
}

func newRendering(doc pipeline.Document, article *html.Node, th Theme) *Rendering {
	return &Rendering{Article: article, Theme: th, Title: doc.Title(), Meta: doc.Meta}
}

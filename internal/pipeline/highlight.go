package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sentinel errors for syntax highlighting.
var (
	ErrUnknownLanguage = errors.New("no lexer for language")
	ErrHighlight       = errors.New("syntax highlighting failed")
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "dracula"

// Highlighter turns source code into class-annotated span markup.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// ChromaHighlighter highlights with chroma, emitting one span per token
// classed with chroma's short token names (k, nf, nd, s2, ...).
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter. An unknown style name falls
// back to chroma's default style.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithAllClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight tokenises code with the lexer registered for lang.
func (h *ChromaHighlighter) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ Highlighter = (*ChromaHighlighter)(nil)

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the preview page template failed.
var ErrPageRender = errors.New("preview page rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after <body>,
// else at the start of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so stylesheet text cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// PageData fills the preview page template.
type PageData struct {
	Title      string
	CSS        string
	ThemeClass string
	ScopeStyle string
	Body       string
}

// PageRenderer renders a themed preview page around an article body.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the page template.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("preview").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render executes the template. Body is trusted renderer output; CSS is
// escaped against </style> breakout.
func (r *PageRenderer) Render(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := data.Title
	if title == "" {
		title = "Preview"
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		Title      string
		CSS        template.CSS
		ThemeClass string
		ScopeStyle template.CSS
		Body       template.HTML
	}{
		Title:      title,
		CSS:        template.CSS(sanitizeCSS(data.CSS)),         // #nosec G203 -- escaped above
		ThemeClass: data.ThemeClass,
		ScopeStyle: template.CSS(sanitizeCSS(data.ScopeStyle)), // #nosec G203 -- escaped above
		Body:       template.HTML(data.Body),                     // #nosec G203 -- renderer output, no raw HTML passthrough
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

package theme

// DefaultID is the id of the first built-in theme.
const DefaultID = "default"

// Builtins returns the built-in themes in registration order.
func Builtins() []Theme {
	return []Theme{
		{
			ID:          "default",
			Name:        "Default",
			CSSFile:     "default.css",
			Description: "Clean, neutral default styling",
			Variables: map[string]string{
				"heading-color":     "#333",
				"text-color":        "#333",
				"link-color":        "#0366d6",
				"code-bg":           "#f6f8fa",
				"blockquote-color":  "#6a737d",
				"blockquote-border": "#dfe2e5",
				"table-border":      "#dfe2e5",
				"table-header-bg":   "#f6f8fa",
			},
		},
		{
			ID:          "elegant",
			Name:        "Elegant",
			CSSFile:     "elegant.css",
			Description: "Serif typography for long-form reading",
			Variables: map[string]string{
				"heading-color":     "#2c3e50",
				"text-color":        "#34495e",
				"link-color":        "#3498db",
				"code-bg":           "#f8f8f8",
				"blockquote-color":  "#6a737d",
				"blockquote-border": "#dfe2e5",
				"table-border":      "#dfe2e5",
				"table-header-bg":   "#f8f8f8",
				"font-family":       "'Georgia', serif",
				"line-height":       "1.8",
			},
		},
		{
			ID:          "github",
			Name:        "GitHub",
			CSSFile:     "github.css",
			Description: "GitHub-flavoured markdown rendering",
			Variables: map[string]string{
				"heading-color":     "#24292e",
				"text-color":        "#24292e",
				"link-color":        "#0366d6",
				"code-bg":           "#f6f8fa",
				"blockquote-color":  "#6a737d",
				"blockquote-border": "#dfe2e5",
				"table-border":      "#dfe2e5",
				"table-header-bg":   "#f6f8fa",
				"font-family":       "-apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif",
				"font-size":         "16px",
				"line-height":       "1.5",
			},
		},
		{
			ID:          "wechat",
			Name:        "WeChat",
			CSSFile:     "wechat.css",
			Description: "Layout tuned for official-account articles",
			Variables: map[string]string{
				"heading-color":     "#3f3f3f",
				"text-color":        "#3f3f3f",
				"link-color":        "#576b95",
				"code-bg":           "#f8f8f8",
				"blockquote-color":  "#888",
				"blockquote-border": "#e0e0e0",
				"table-border":      "#e0e0e0",
				"table-header-bg":   "#f8f8f8",
				"font-family":       "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Open Sans', 'Helvetica Neue', sans-serif",
				"font-size":         "15px",
				"line-height":       "1.7",
			},
		},
		{
			ID:          "dark",
			Name:        "Dark",
			CSSFile:     "dark.css",
			Description: "Low-glare dark palette",
			Variables: map[string]string{
				"heading-color":     "#e1e1e1",
				"text-color":        "#d4d4d4",
				"link-color":        "#61afef",
				"code-bg":           "#282c34",
				"blockquote-color":  "#9e9e9e",
				"blockquote-border": "#4b4b4b",
				"table-border":      "#4b4b4b",
				"table-header-bg":   "#2c313a",
				"background-color":  "#1e1e1e",
				"font-family":       "'Consolas', 'Monaco', monospace",
			},
		},
	}
}

// RegisterBuiltin registers the built-in themes into r.
func RegisterBuiltin(r *Registry) {
	for _, t := range Builtins() {
		r.Register(t)
	}
}

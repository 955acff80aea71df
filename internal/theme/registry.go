package theme

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/dom"
)

// Registry holds themes in registration order. It is not safe for
// concurrent use; the owning session serializes access.
type Registry struct {
	themes []Theme
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger.With("component", "theme")}
}

// Register inserts t. A theme with the same id is overwritten in place,
// keeping its position, and a warning is logged.
func (r *Registry) Register(t Theme) {
	t = t.clone()
	for i := range r.themes {
		if r.themes[i].ID == t.ID {
			r.logger.Warn("theme already registered, overwriting", "id", t.ID)
			r.themes[i] = t
			return
		}
	}
	r.themes = append(r.themes, t)
}

// List returns a snapshot of the registered themes.
func (r *Registry) List() []Theme {
	out := make([]Theme, len(r.themes))
	for i, t := range r.themes {
		out[i] = t.clone()
	}
	return out
}

// Get looks up a theme by id.
func (r *Registry) Get(id string) (Theme, bool) {
	for _, t := range r.themes {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return Theme{}, false
}

// Len returns the number of registered themes.
func (r *Registry) Len() int { return len(r.themes) }

// Resolve returns the theme for id, falling back to the first registered
// theme when id is unknown. The boolean reports whether id matched.
func (r *Registry) Resolve(id string) (Theme, bool) {
	if t, ok := r.Get(id); ok {
		return t, true
	}
	if len(r.themes) == 0 {
		return Theme{}, false
	}
	fallback := r.themes[0].clone()
	r.logger.Warn("unknown theme, using fallback", "id", id, "fallback", fallback.ID)
	return fallback, false
}

// Apply marks scope with the theme: every registered theme class is
// removed, theme-<id> is added, and each variable becomes a --<key> custom
// property in the scope's inline style. An unknown id leaves scope untouched.
func (r *Registry) Apply(id string, scope *html.Node) error {
	t, ok := r.Get(id)
	if !ok {
		r.logger.Error("cannot apply unknown theme", "id", id)
		return fmt.Errorf("%w: %q", ErrThemeNotFound, id)
	}

	sel := dom.Select(scope)
	for _, known := range r.themes {
		sel.RemoveClass(known.Class())
	}
	sel.AddClass(t.Class())
	dom.SetAttr(scope, "class", strings.Join(dom.Classes(scope), " "))

	st := dom.StyleOf(scope)
	for _, key := range t.VariableKeys() {
		st.Set("--"+key, t.Variables[key])
	}
	dom.WriteStyle(scope, st)
	return nil
}

// ScopeStyle renders the custom properties Apply would set, for scopes that
// are produced as text rather than as a tree.
func ScopeStyle(t Theme) string {
	var st dom.Style
	for _, key := range t.VariableKeys() {
		st.Set("--"+key, t.Variables[key])
	}
	return st.String()
}

// Validate checks that t can be registered.
func Validate(t Theme) error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTheme)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: %q has no name", ErrInvalidTheme, t.ID)
	}
	for _, r := range t.ID {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("%w: id %q must be lowercase letters, digits, '-' or '_'", ErrInvalidTheme, t.ID)
		}
	}
	return nil
}

// Package theme holds the registry of named presentation themes.
//
// A theme pairs a stylesheet with a set of variables that are applied to a
// document scope as CSS custom properties. The registry keeps themes in
// registration order; the first registered theme is the fallback for
// unknown ids.
package theme

import (
	"errors"
	"maps"
	"sort"
)

// ErrThemeNotFound indicates an id that was never registered.
var ErrThemeNotFound = errors.New("theme not found")

// ErrInvalidTheme indicates a descriptor that cannot be registered.
var ErrInvalidTheme = errors.New("invalid theme")

// ClassPrefix prefixes the scope class that marks the active theme.
const ClassPrefix = "theme-"

// Theme is a named presentation descriptor.
type Theme struct {
	ID          string
	Name        string
	CSSFile     string
	Description string
	Variables   map[string]string
}

// Class returns the scope class for t ("theme-<id>").
func (t Theme) Class() string {
	return ClassPrefix + t.ID
}

// Var returns a variable value, or fallback when unset.
func (t Theme) Var(key, fallback string) string {
	if v, ok := t.Variables[key]; ok && v != "" {
		return v
	}
	return fallback
}

// VariableKeys lists the variable names in sorted order.
func (t Theme) VariableKeys() []string {
	keys := make([]string, 0, len(t.Variables))
	for k := range t.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t Theme) clone() Theme {
	t.Variables = maps.Clone(t.Variables)
	return t
}

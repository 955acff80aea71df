package pipeline

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/dom"
)

// HighlightRule maps chroma token classes to inline presentation.
type HighlightRule struct {
	Name    string
	Classes []string
	Color   string
	Bold    bool
	Italic  bool
}

// Decls returns the inline declarations the rule applies.
func (r HighlightRule) Decls() []dom.Decl {
	decls := []dom.Decl{{Prop: "color", Value: r.Color}}
	if r.Bold {
		decls = append(decls, dom.Decl{Prop: "font-weight", Value: "bold"})
	}
	if r.Italic {
		decls = append(decls, dom.Decl{Prop: "font-style", Value: "italic"})
	}
	return decls
}

// Matches reports whether n carries one of the rule's classes.
func (r HighlightRule) Matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range dom.Classes(n) {
		for _, want := range r.Classes {
			if c == want {
				return true
			}
		}
	}
	return false
}

// Token classes of the annotation span and of the token kinds the
// annotation pass never rewrites.
const metaClass = "nd"

var (
	commentClasses = []string{"c", "c1", "cm", "cs", "ch", "cpf"}
	stringClasses  = []string{"s", "s1", "s2", "sb", "sc", "sd", "se", "sh", "si", "sx", "sa", "sr", "dl"}
)

// DefaultRules is the fixed rule table. Rules touch disjoint classes, so
// their order does not change the result.
var DefaultRules = []HighlightRule{
	{Name: "keyword", Classes: []string{"k", "kd", "kn", "kr", "kp"}, Color: "#ff79c6", Bold: true},
	{Name: "meta", Classes: []string{metaClass, "cp"}, Color: "#ff8c00", Bold: true},
	{Name: "comment", Classes: commentClasses, Color: "#6A9955", Italic: true},
	{Name: "string", Classes: stringClasses, Color: "#f1fa8c"},
	{Name: "function", Classes: []string{"nf", "fm"}, Color: "#50fa7b"},
	{Name: "type", Classes: []string{"kt", "nc"}, Color: "#8be9fd", Bold: true},
	{Name: "literal", Classes: []string{"m", "mi", "mf", "mh", "mb", "mo", "il", "kc"}, Color: "#bd93f9"},
	{Name: "variable", Classes: []string{"nv", "vc", "vg", "vi"}, Color: "#f8f8f2"},
}

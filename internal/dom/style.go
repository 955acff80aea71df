package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Decl is one inline style declaration.
type Decl struct {
	Prop  string
	Value string
}

// Style is an ordered list of inline declarations. Setting an existing
// property replaces it in place.
type Style struct {
	decls []*css.Declaration
}

// ParseStyle parses the contents of a style attribute. Malformed input
// yields the declarations parsed before the error.
func ParseStyle(s string) Style {
	s = strings.TrimSpace(s)
	if s == "" {
		return Style{}
	}
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	decls, _ := parser.ParseDeclarations(s)

	st := Style{}
	for _, d := range decls {
		if d.Property == "" {
			continue
		}
		st.set(strings.ToLower(d.Property), d.Value, d.Important)
	}
	return st
}

// StyleOf parses the style attribute of n.
func StyleOf(n *html.Node) Style {
	v, _ := Attr(n, "style")
	return ParseStyle(v)
}

// Get returns the value of prop.
func (s Style) Get(prop string) (string, bool) {
	for _, d := range s.decls {
		if d.Property == prop {
			return d.Value, true
		}
	}
	return "", false
}

// Set assigns prop, replacing any earlier value.
func (s *Style) Set(prop, value string) {
	s.set(prop, value, false)
}

func (s *Style) set(prop, value string, important bool) {
	for _, d := range s.decls {
		if d.Property == prop {
			d.Value = value
			d.Important = important
			return
		}
	}
	s.decls = append(s.decls, &css.Declaration{Property: prop, Value: value, Important: important})
}

// Del removes prop.
func (s *Style) Del(prop string) {
	kept := s.decls[:0]
	for _, d := range s.decls {
		if d.Property != prop {
			kept = append(kept, d)
		}
	}
	s.decls = kept
}

// Len returns the number of declarations.
func (s Style) Len() int { return len(s.decls) }

// Props lists the property names in declaration order.
func (s Style) Props() []string {
	out := make([]string, len(s.decls))
	for i, d := range s.decls {
		out[i] = d.Property
	}
	return out
}

// String renders the declarations in attribute form.
func (s Style) String() string {
	parts := make([]string, 0, len(s.decls))
	for _, d := range s.decls {
		v := d.Value
		if d.Important {
			v += " !important"
		}
		parts = append(parts, d.Property+": "+v)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

// SetStyle merges decls into the style attribute of n. Later declarations
// win over earlier ones and over values already on the element.
func SetStyle(n *html.Node, decls ...Decl) {
	st := StyleOf(n)
	for _, d := range decls {
		st.Set(d.Prop, d.Value)
	}
	WriteStyle(n, st)
}

// WriteStyle replaces the style attribute of n with st. An empty style
// removes the attribute.
func WriteStyle(n *html.Node, st Style) {
	if st.Len() == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", st.String())
}

// StyleValue returns one property of the inline style of n.
func StyleValue(n *html.Node, prop string) string {
	v, _ := StyleOf(n).Get(prop)
	return v
}

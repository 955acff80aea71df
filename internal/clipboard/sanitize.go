package clipboard

import "github.com/microcosm-cc/bluemonday"

// NewPolicy returns the hygiene policy applied to markup before it is
// attached. It drops scripts, event handlers, and frames but keeps the
// inline presentation the projector wrote.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("section", "div", "span", "mark")
	p.AllowAttrs("style", "class").Globally()
	p.AllowDataAttributes()
	p.AllowAttrs("border").Matching(bluemonday.Integer).OnElements("table")
	return p
}

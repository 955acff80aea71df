package clipboard

// MIME types of the payload representations.
const (
	MIMEHTML = "text/html"
	MIMEText = "text/plain"
)

// Payload is what a copy delivers: rich markup plus its plain-text fallback.
type Payload struct {
	HTML string
	Text string
}

// Item is one representation of a payload.
type Item struct {
	MIME string `json:"mime"`
	Data string `json:"data"`
}

// Items returns the representations to write, rich markup first. An empty
// HTML yields a text-only payload.
func (p Payload) Items() []Item {
	items := make([]Item, 0, 2)
	if p.HTML != "" {
		items = append(items, Item{MIME: MIMEHTML, Data: p.HTML})
	}
	return append(items, Item{MIME: MIMEText, Data: p.Text})
}

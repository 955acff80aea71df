// Package clipboard delivers a rich-text payload to the system clipboard.
//
// A Committer attaches the markup to an off-screen container provided by a
// Surface, then tries an ordered list of delivery strategies until one
// succeeds:
//
//	committer := clipboard.NewCommitter(surface)
//	res := committer.Commit(ctx, clipboard.Payload{HTML: markup, Text: source})
//	if !res.OK {
//	    // every strategy failed; res.Attempts carries the reasons
//	}
//
// The container is detached exactly once whichever strategy wins, fails or
// panics. Commit never returns an error and never panics.
//
// BrowserSurface is the production Surface. It drives a headless Chrome
// through go-rod, so the structured ClipboardItem write and the legacy
// execCommand('copy') fallback run in a real browser.
package clipboard

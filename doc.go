// Package mdpublish turns Markdown into rich text that survives a paste into
// a publishing platform's editor.
//
// # Quick Start
//
// Create a publisher, open a session, and copy:
//
//	pub, err := mdpublish.NewPublisher()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pub.Close()
//
//	s := mdpublish.NewSession(pub)
//	s.SetContent("# Hello\n\n```java\n@Override\npublic void f() {}\n```")
//	s.SetTheme("wechat")
//	if !s.CopyForPublishing(ctx) {
//	    // nothing reached the clipboard; details are logged
//	}
//
// # Pipeline
//
// A copy runs these stages on a private clone of the preview:
//
//  1. Markdown preprocessing (line endings, blank lines, ==highlight==)
//  2. Markdown to HTML via goldmark with class-based chroma highlighting
//  3. Theme application: theme-<id> class and --<var> custom properties
//  4. Highlight normalization: re-highlighting, annotation spans, and
//     inline token colours that survive editor sanitizers
//  5. Inline-style projection: every visual property becomes a style
//     attribute; code blocks get a scroll container and a language badge
//  6. Clipboard delivery through ordered strategies (structured write,
//     then selection copy), with the off-screen container always detached
//
// # Sessions
//
// A Session holds the document text, a bounded undo/redo history, the
// selected theme, and the cached preview. SetContent is the only writer of
// history entries. Copies are serialized: a second CopyForPublishing while
// one is running fails fast with ErrCopyInProgress.
//
// # Batch Conversion
//
// Publisher.Publish returns the paste-ready markup without touching the
// clipboard. PublisherPool hands out one Publisher per worker for parallel
// conversion of many files.
package mdpublish

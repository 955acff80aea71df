package mdpublish

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/dom"
	"github.com/alnah/go-mdpublish/internal/history"
)

// Session is one open document: its text, undo/redo history, selected
// theme, and cached preview. Methods are safe for concurrent use; copies
// are serialized.
type Session struct {
	pub    *Publisher
	logger *slog.Logger

	mu        sync.Mutex
	content   string
	history   *history.Log
	themeID   string
	preview   *Rendering
	sourceDir string
	exportFmt string
	now       func() time.Time

	copying atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistoryCapacity bounds the undo history. Values below 1 use the
// default capacity.
func WithHistoryCapacity(n int) SessionOption {
	return func(s *Session) { s.history = history.New(n) }
}

// WithSourceDir resolves relative image paths in the preview against dir.
func WithSourceDir(dir string) SessionOption {
	return func(s *Session) { s.sourceDir = dir }
}

// WithExportFormat sets the snapshot file name pattern (dateutil tokens).
func WithExportFormat(format string) SessionOption {
	return func(s *Session) {
		if format != "" {
			s.exportFmt = format
		}
	}
}

// WithClock replaces the clock used to name exported snapshots.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession opens an empty document on pub, themed with pub's default theme.
func NewSession(pub *Publisher, opts ...SessionOption) *Session {
	s := &Session{
		pub:       pub,
		logger:    pub.logger.With("component", "session"),
		history:   history.New(history.DefaultCapacity),
		themeID:   pub.DefaultTheme().ID,
		exportFmt: DefaultExportFormat,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Content and history
// ---------------------------------------------------------------------------

// SetContent replaces the document text and records a history snapshot.
// It reports whether a new entry was recorded; setting the text it already
// has records nothing.
func (s *Session) SetContent(content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if content != s.content {
		s.preview = nil
	}
	s.content = content
	return s.history.Record(content)
}

// Content returns the current document text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Undo restores the previous snapshot. It reports false when there is none.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore(s.history.Undo())
}

// Redo restores the next snapshot. It reports false when there is none.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore(s.history.Redo())
}

func (s *Session) restore(content string, ok bool) bool {
	if !ok {
		return false
	}
	s.content = content
	s.preview = nil
	return true
}

// CanUndo reports whether Undo would change the document.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the document.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// ---------------------------------------------------------------------------
// Theme and preview
// ---------------------------------------------------------------------------

// SetTheme selects a theme. An unknown id selects the first registered
// theme. The effective theme is returned and applied to the cached preview.
func (s *Session) SetTheme(id string) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	th, _ := s.pub.ResolveTheme(id)
	s.themeID = th.ID
	if s.preview != nil {
		if err := s.pub.ApplyTheme(s.preview, th.ID); err != nil {
			s.preview = nil
		}
	}
	return th
}

// Theme returns the selected theme.
func (s *Session) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, _ := s.pub.ResolveTheme(s.themeID)
	return th
}

// Render refreshes the cached preview tree.
func (s *Session) Render(ctx context.Context) (*Rendering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(ctx)
}

func (s *Session) renderLocked(ctx context.Context) (*Rendering, error) {
	if s.preview != nil {
		return s.preview, nil
	}
	r, err := s.pub.Render(ctx, s.content, s.themeID)
	if err != nil {
		return nil, err
	}
	s.preview = r
	return r, nil
}

// Preview returns the standalone preview page for the current content.
func (s *Session) Preview(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.renderLocked(ctx)
	if err != nil {
		return "", err
	}
	return s.pub.Page(ctx, r, s.sourceDir)
}

// ---------------------------------------------------------------------------
// Clipboard
// ---------------------------------------------------------------------------

// CopyForPublishing transforms a private clone of the preview (rendering
// one when no preview exists) and copies it to the clipboard. It reports
// success; failures are logged, never returned or panicked.
func (s *Session) CopyForPublishing(ctx context.Context) bool {
	_, err := s.CommitForPublishing(ctx)
	if err != nil {
		s.logger.Warn("copy for publishing failed", "error", err)
		return false
	}
	return true
}

// CommitForPublishing is CopyForPublishing with the delivery report and
// the failure cause.
func (s *Session) CommitForPublishing(ctx context.Context) (res CopyResult, err error) {
	if !s.copying.CompareAndSwap(false, true) {
		return res, ErrCopyInProgress
	}
	defer s.copying.Store(false)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("copy for publishing panicked", "panic", r)
			res, err = CopyResult{}, fmt.Errorf("%w: panic: %v", ErrCopyFailed, r)
		}
	}()

	s.mu.Lock()
	text := s.content
	r, rerr := s.renderLocked(ctx)
	var snapshot Rendering
	if rerr == nil {
		// SetTheme rewrites the cached article under s.mu.
		snapshot = *r
		snapshot.Article = dom.Clone(r.Article)
	}
	s.mu.Unlock()
	if rerr != nil {
		return res, rerr
	}

	markup, err := s.pub.Transform(ctx, &snapshot)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	res = s.pub.Deliver(ctx, clipboard.Payload{HTML: markup, Text: text})
	if !res.OK {
		return res, copyError(res)
	}
	s.logger.Info("copied for publishing", "strategy", res.Strategy, "theme", snapshot.Theme.ID)
	return res, nil
}

// CopySource copies the raw document text as plain text.
func (s *Session) CopySource(ctx context.Context) bool {
	text := s.Content()
	if text == "" {
		s.logger.Warn("nothing to copy", "error", ErrEmptyContent)
		return false
	}
	if !s.copying.CompareAndSwap(false, true) {
		s.logger.Warn("copy rejected", "error", ErrCopyInProgress)
		return false
	}
	defer s.copying.Store(false)

	res := s.pub.Deliver(ctx, clipboard.Payload{Text: text})
	if !res.OK {
		s.logger.Warn("copy source failed", "error", copyError(res))
	}
	return res.OK
}

// IsCopyInProgress reports whether a copy is running.
func (s *Session) IsCopyInProgress() bool {
	return s.copying.Load()
}

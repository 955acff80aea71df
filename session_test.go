package mdpublish

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/dom"
	"github.com/alnah/go-mdpublish/internal/pipeline"
	"github.com/alnah/go-mdpublish/internal/theme"
)

// ---------------------------------------------------------------------------
// Content and history
// ---------------------------------------------------------------------------

func TestSession_ContentHistory(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub)

	if !s.SetContent("a") || !s.SetContent("b") {
		t.Fatal("distinct content should be recorded")
	}
	if s.SetContent("b") {
		t.Error("repeating the current content should not be recorded")
	}

	if !s.Undo() || s.Content() != "a" {
		t.Fatalf("Undo() -> %q, want a", s.Content())
	}
	if !s.CanRedo() {
		t.Error("CanRedo() should be true after undo")
	}

	s.SetContent("c")
	if s.Redo() {
		t.Error("Redo() after a branching edit should be a no-op")
	}
	if s.Content() != "c" {
		t.Errorf("Content() = %q, want c", s.Content())
	}

	if !s.Undo() || s.Content() != "a" || s.Undo() {
		t.Errorf("undo chain ended at %q", s.Content())
	}
	if s.CanUndo() {
		t.Error("CanUndo() should be false at the oldest entry")
	}
}

func TestSession_SetContentAfterUndo(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)

	t.Run("re-setting undone text", func(t *testing.T) {
		t.Parallel()

		s := NewSession(pub)
		s.SetContent("a")
		s.SetContent("b")
		s.Undo()

		if !s.SetContent("b") {
			t.Error("SetContent(b) after undo should be recorded")
		}
		if s.CanRedo() {
			t.Error("CanRedo() should be false after recording")
		}
		if !s.Undo() || s.Content() != "a" {
			t.Errorf("Undo() -> %q, want a", s.Content())
		}
	})

	t.Run("re-setting current text", func(t *testing.T) {
		t.Parallel()

		s := NewSession(pub)
		s.SetContent("a")
		s.SetContent("b")
		s.Undo()

		if s.SetContent("a") {
			t.Error("SetContent(a) matching the current snapshot should not be recorded")
		}
		if s.CanUndo() {
			t.Error("CanUndo() should be false at the oldest snapshot")
		}
		if !s.Redo() || s.Content() != "b" {
			t.Errorf("Redo() -> %q, want b", s.Content())
		}
	})
}

func TestSession_HistoryCapacity(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub, WithHistoryCapacity(3))

	for _, c := range []string{"1", "2", "3", "4", "5"} {
		s.SetContent(c)
	}
	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 2 || s.Content() != "3" {
		t.Errorf("undid %d steps to %q, want 2 steps to 3", undos, s.Content())
	}
}

// ---------------------------------------------------------------------------
// Theme and preview
// ---------------------------------------------------------------------------

func TestSession_SetTheme(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub)

	if got := s.Theme().ID; got != theme.DefaultID {
		t.Errorf("initial theme = %q", got)
	}
	if got := s.SetTheme("elegant"); got.ID != "elegant" {
		t.Errorf("SetTheme(elegant) = %q", got.ID)
	}
	if got := s.SetTheme("neon"); got.ID != theme.DefaultID {
		t.Errorf("SetTheme(neon) = %q, want first registered", got.ID)
	}
}

func TestSession_SetThemeUpdatesPreview(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub)
	s.SetContent("# Hi")

	r, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s.SetTheme("dark")

	if !dom.HasClass(r.Article, "theme-dark") || dom.HasClass(r.Article, "theme-default") {
		t.Errorf("cached preview classes = %v", dom.Classes(r.Article))
	}
	again, _ := s.Render(context.Background())
	if again != r {
		t.Error("theme change should not force a re-render")
	}
}

func TestSession_RenderCache(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub)
	ctx := context.Background()

	if _, err := s.Render(ctx); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("empty session Render() error = %v", err)
	}

	s.SetContent("# One")
	first, _ := s.Render(ctx)
	cached, _ := s.Render(ctx)
	if first != cached {
		t.Error("Render should reuse the cached preview")
	}

	s.SetContent("# Two")
	second, _ := s.Render(ctx)
	if second == first || !strings.Contains(dom.TextContent(second.Article), "Two") {
		t.Error("SetContent should invalidate the preview")
	}

	s.Undo()
	restored, _ := s.Render(ctx)
	if !strings.Contains(dom.TextContent(restored.Article), "One") {
		t.Error("Undo should invalidate the preview")
	}
}

func TestSession_Preview(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub, WithSourceDir(t.TempDir()))
	s.SetContent("# Hello\n\n![x](x.png)")
	s.SetTheme("wechat")

	page, err := s.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "theme-wechat", "Hello", "file://"} {
		if !strings.Contains(page, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// Copy for publishing
// ---------------------------------------------------------------------------

func TestSession_CopyForPublishing(t *testing.T) {
	t.Parallel()

	pub, surface := newTestPublisher(t)
	s := NewSession(pub)
	s.SetContent(javaDoc)
	ctx := context.Background()

	preview, err := s.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	before, _ := dom.Render(preview.Article)

	if !s.CopyForPublishing(ctx) {
		t.Fatal("CopyForPublishing() = false")
	}

	after, _ := dom.Render(preview.Article)
	if before != after {
		t.Error("copy mutated the live preview")
	}

	markup := surface.lastMarkup()
	if !strings.Contains(markup, pipeline.BadgeClass) || !strings.Contains(markup, "#282c34") {
		t.Errorf("attached markup is not projected: %s", markup)
	}
	if got := surface.container.lastItem(clipboard.MIMEText); got != javaDoc {
		t.Errorf("text item = %q, want the markdown source", got)
	}
	if got := surface.container.lastItem(clipboard.MIMEHTML); !strings.Contains(got, "Java") {
		t.Errorf("html item = %q", got)
	}
	if surface.container.detaches != 1 {
		t.Errorf("detaches = %d, want 1", surface.container.detaches)
	}
}

func TestSession_CopyRendersWhenNoPreview(t *testing.T) {
	t.Parallel()

	pub, surface := newTestPublisher(t)
	s := NewSession(pub)
	s.SetContent("# Fresh")

	res, err := s.CommitForPublishing(context.Background())
	if err != nil || !res.OK {
		t.Fatalf("CommitForPublishing() = %+v, %v", res, err)
	}
	if !strings.Contains(surface.lastMarkup(), "Fresh") {
		t.Error("a fresh render should have been copied")
	}
}

func TestSession_CopyFallbackAndFailure(t *testing.T) {
	t.Parallel()

	t.Run("selection fallback", func(t *testing.T) {
		t.Parallel()

		pub, surface := newTestPublisher(t)
		surface.container.writeErr = errWriteRejected
		s := NewSession(pub)
		s.SetContent("# Hi")

		res, err := s.CommitForPublishing(context.Background())
		if err != nil || res.Strategy != clipboard.StrategySelection {
			t.Errorf("result = %+v, %v; want selection", res, err)
		}
		if surface.container.detaches != 1 {
			t.Errorf("detaches = %d, want 1", surface.container.detaches)
		}
	})

	t.Run("all strategies fail", func(t *testing.T) {
		t.Parallel()

		pub, surface := newTestPublisher(t)
		surface.container.writeErr = errWriteRejected
		surface.container.copyErr = errors.New("execCommand refused")
		s := NewSession(pub)
		s.SetContent("# Hi")

		if s.CopyForPublishing(context.Background()) {
			t.Error("CopyForPublishing() = true, want false")
		}
		_, err := s.CommitForPublishing(context.Background())
		if !errors.Is(err, ErrCopyFailed) || !errors.Is(err, errWriteRejected) {
			t.Errorf("error = %v", err)
		}
		if surface.container.detaches != 2 {
			t.Errorf("detaches = %d, want one per copy", surface.container.detaches)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		pub, surface := newTestPublisher(t)
		s := NewSession(pub)

		if _, err := s.CommitForPublishing(context.Background()); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("error = %v, want ErrEmptyContent", err)
		}
		if surface.lastMarkup() != "" {
			t.Error("nothing should be attached")
		}
	})
}

func TestSession_CopyInProgress(t *testing.T) {
	t.Parallel()

	pub, surface := newTestPublisher(t)
	surface.block = make(chan struct{})
	s := NewSession(pub)
	s.SetContent("# Hi")

	var wg sync.WaitGroup
	wg.Add(1)
	var first bool
	go func() {
		defer wg.Done()
		first = s.CopyForPublishing(context.Background())
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !s.IsCopyInProgress() {
		if time.Now().After(deadline) {
			t.Fatal("first copy never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.CommitForPublishing(context.Background()); !errors.Is(err, ErrCopyInProgress) {
		t.Errorf("second copy error = %v, want ErrCopyInProgress", err)
	}
	if s.CopySource(context.Background()) {
		t.Error("CopySource should be rejected while a copy runs")
	}

	close(surface.block)
	wg.Wait()
	if !first {
		t.Error("first copy should succeed once unblocked")
	}
	if s.IsCopyInProgress() {
		t.Error("copy flag should be cleared")
	}
}

func TestSession_CopyWhileThemeChanges(t *testing.T) {
	t.Parallel()

	pub, _ := newTestPublisher(t)
	s := NewSession(pub)
	s.SetContent("# Title\n\nSome `code` and text.")
	if _, err := s.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			if _, err := s.CommitForPublishing(context.Background()); err != nil {
				t.Errorf("CommitForPublishing() error = %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 500 {
			if i%2 == 0 {
				s.SetTheme("dark")
			} else {
				s.SetTheme("github")
			}
		}
	}()
	wg.Wait()

	r, err := s.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !dom.HasClass(r.Article, "theme-github") || dom.HasClass(r.Article, "theme-dark") {
		t.Errorf("cached preview classes = %v, want theme-github only", dom.Classes(r.Article))
	}
}

func TestSession_CopySource(t *testing.T) {
	t.Parallel()

	pub, surface := newTestPublisher(t)
	s := NewSession(pub)

	if s.CopySource(context.Background()) {
		t.Error("CopySource on an empty session should fail")
	}

	s.SetContent("# raw *markdown*")
	if !s.CopySource(context.Background()) {
		t.Fatal("CopySource() = false")
	}
	if got := surface.container.lastItem(clipboard.MIMEText); got != "# raw *markdown*" {
		t.Errorf("text item = %q", got)
	}
	if got := surface.container.lastItem(clipboard.MIMEHTML); got != "" {
		t.Errorf("source copy should carry no html item, got %q", got)
	}
}

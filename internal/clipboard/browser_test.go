package clipboard

import (
	"context"
	"errors"
	"testing"
)

// Notes:
// - Launching Chrome is not exercised here; the committer tests cover the
//   delivery chain through fakes.

func TestNewBrowserSurface_Defaults(t *testing.T) {
	t.Parallel()

	s := NewBrowserSurface(BrowserOptions{}, nil)
	if s.opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", s.opts.Timeout, DefaultTimeout)
	}
	if s.logger == nil {
		t.Error("logger should default to slog.Default")
	}
}

func TestBrowserSurface_CloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	s := NewBrowserSurface(BrowserOptions{}, quietLogger())
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBrowserSurface_AttachCancelled(t *testing.T) {
	t.Parallel()

	s := NewBrowserSurface(BrowserOptions{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Attach(ctx, "<p>x</p>"); !errors.Is(err, context.Canceled) {
		t.Errorf("Attach() error = %v, want context.Canceled", err)
	}
	if s.browser != nil {
		t.Error("a cancelled Attach must not launch the browser")
	}
}

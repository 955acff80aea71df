package mdpublish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alnah/go-mdpublish/internal/clipboard"
)

// recordingContainer captures what the committer writes.
type recordingContainer struct {
	mu       sync.Mutex
	writeErr error
	copyErr  error
	items    [][]clipboard.Item
	copies   int
	detaches int
}

func (c *recordingContainer) WriteItems(_ context.Context, items []clipboard.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, items)
	return c.writeErr
}

func (c *recordingContainer) CopySelection(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copies++
	return c.copyErr
}

func (c *recordingContainer) Detach(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detaches++
	return nil
}

func (c *recordingContainer) lastItem(mime string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return ""
	}
	for _, it := range c.items[len(c.items)-1] {
		if it.MIME == mime {
			return it.Data
		}
	}
	return ""
}

// recordingSurface attaches a shared recordingContainer. A non-nil block
// channel holds Attach until it is closed.
type recordingSurface struct {
	mu        sync.Mutex
	container *recordingContainer
	attached  []string
	block     chan struct{}
	closed    bool
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{container: &recordingContainer{}}
}

func (s *recordingSurface) Attach(ctx context.Context, markup string) (clipboard.Container, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = append(s.attached, markup)
	return s.container, nil
}

func (s *recordingSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSurface) lastMarkup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.attached) == 0 {
		return ""
	}
	return s.attached[len(s.attached)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestPublisher builds a publisher on a recording surface.
func newTestPublisher(t *testing.T, opts ...Option) (*Publisher, *recordingSurface) {
	t.Helper()

	surface := newRecordingSurface()
	base := []Option{WithLogger(quietLogger()), WithSurface(surface)}
	pub, err := NewPublisher(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })
	return pub, surface
}

var errWriteRejected = errors.New("write rejected")

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/clipboard"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake clipboard surface
// ---------------------------------------------------------------------------

// fakeSurface records attached markup and written items instead of driving
// a browser.
type fakeSurface struct {
	mu       sync.Mutex
	writeErr error
	markups  []string
	items    [][]clipboard.Item
}

func (s *fakeSurface) Attach(_ context.Context, markup string) (clipboard.Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markups = append(s.markups, markup)
	return &fakeContainer{surface: s}, nil
}

func (s *fakeSurface) lastItem(mime string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return ""
	}
	for _, it := range s.items[len(s.items)-1] {
		if it.MIME == mime {
			return it.Data
		}
	}
	return ""
}

func (s *fakeSurface) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type fakeContainer struct {
	surface *fakeSurface
}

func (c *fakeContainer) WriteItems(_ context.Context, items []clipboard.Item) error {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()
	if c.surface.writeErr != nil {
		return c.surface.writeErr
	}
	c.surface.items = append(c.surface.items, items)
	return nil
}

func (c *fakeContainer) CopySelection(context.Context) error {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()
	return c.surface.writeErr
}

func (c *fakeContainer) Detach(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	surface *fakeSurface
}

func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	surface := &fakeSurface{}
	return &testEnv{
		Environment: &Environment{
			Now:     func() time.Time { return fixedNow },
			Stdin:   strings.NewReader(stdin),
			Stdout:  stdout,
			Stderr:  stderr,
			Surface: surface,
		},
		stdout:  stdout,
		stderr:  stderr,
		surface: surface,
	}
}

// writeMarkdown writes content to name under dir and returns its path.
func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestPublisher builds a publisher delivering to surface.
func newTestPublisher(t *testing.T, surface clipboard.Surface) *mdpublish.Publisher {
	t.Helper()
	pub, err := mdpublish.NewPublisher(
		mdpublish.WithSurface(surface),
		mdpublish.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })
	return pub
}

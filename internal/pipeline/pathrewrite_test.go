package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdpublish/internal/dom"
)

// ---------------------------------------------------------------------------
// RewriteRelativePaths
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	sourceDir := "/docs"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\docs`
	}

	tests := []struct {
		name         string
		markup       string
		sourceDir    string
		wantContains string
	}{
		{"relative image", `<img src="./images/logo.png"/>`, sourceDir, `src="file://`},
		{"bare relative image", `<img src="logo.png"/>`, sourceDir, `src="file://`},
		{"relative link", `<a href="notes/other.md">x</a>`, sourceDir, `href="file://`},
		{"absolute url untouched", `<img src="https://example.com/a.png"/>`, sourceDir, `src="https://example.com/a.png"`},
		{"data uri untouched", `<img src="data:image/png;base64,AA"/>`, sourceDir, `src="data:image/png;base64,AA"`},
		{"anchor untouched", `<a href="#intro">x</a>`, sourceDir, `href="#intro"`},
		{"mailto untouched", `<a href="mailto:a@b.c">x</a>`, sourceDir, `href="mailto:a@b.c"`},
		{"protocol relative untouched", `<img src="//cdn.example.com/a.png"/>`, sourceDir, `src="//cdn.example.com/a.png"`},
		{"traversal untouched", `<img src="../../etc/passwd"/>`, sourceDir, `src="../../etc/passwd"`},
		{"empty source dir", `<img src="logo.png"/>`, "", `src="logo.png"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := dom.ParseFragment(tt.markup)
			if err != nil {
				t.Fatal(err)
			}
			if err := RewriteRelativePaths(root, tt.sourceDir); err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}
			got, _ := dom.RenderInner(root)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("got %q, want it to contain %q", got, tt.wantContains)
			}
		})
	}
}

func TestRewriteRelativePaths_ResolvesAgainstDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root, _ := dom.ParseFragment(`<p><img src="img/a.png"/></p>`)
	if err := RewriteRelativePaths(root, dir); err != nil {
		t.Fatal(err)
	}

	img := dom.Select(root).Find("img").Get(0)
	got, _ := dom.Attr(img, "src")
	want := pathToFileURL(filepath.Join(dir, "img", "a.png"))
	if got != want {
		t.Errorf("src = %q, want %q", got, want)
	}
}

package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, base, dir, file, content string) {
	t.Helper()
	full := filepath.Join(base, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", full, err)
	}
	if err := os.WriteFile(filepath.Join(full, file), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", file, err)
	}
}

// ---------------------------------------------------------------------------
// NewFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	notDir := filepath.Join(t.TempDir(), "styles.css")
	if err := os.WriteFile(notDir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"existing directory", t.TempDir(), nil},
		{"empty path", "", ErrInvalidBasePath},
		{"missing directory", filepath.Join(t.TempDir(), "absent"), ErrInvalidBasePath},
		{"regular file", notDir, ErrInvalidBasePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, err := NewFilesystemLoader(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewFilesystemLoader(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil || loader == nil {
				t.Fatalf("NewFilesystemLoader(%q) = %v, %v", tt.path, loader, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Loading custom theme stylesheets and templates
// ---------------------------------------------------------------------------

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "custom.css", ".theme-custom { color: #2c3e50; }")
	writeAsset(t, base, "templates", "preview.html", "<main>{{.Body}}</main>")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("custom")
	if err != nil || css != ".theme-custom { color: #2c3e50; }" {
		t.Errorf("LoadStyle(custom) = %q, %v", css, err)
	}

	tmpl, err := loader.LoadTemplate("preview")
	if err != nil || tmpl != "<main>{{.Body}}</main>" {
		t.Errorf("LoadTemplate(preview) = %q, %v", tmpl, err)
	}

	if _, err := loader.LoadStyle("dark"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(dark) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("page"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(page) error = %v, want ErrTemplateNotFound", err)
	}
	for _, bad := range []string{"", "../etc", "a.b", `x\y`} {
		if _, err := loader.LoadStyle(bad); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle(%q) error = %v, want ErrInvalidAssetName", bad, err)
		}
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "outside.css")
	if err := os.WriteFile(outside, []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(base, "styles", "escape.css")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("escape"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(escape) error = %v, want ErrPathTraversal", err)
	}
}

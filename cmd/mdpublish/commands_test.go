package main

// Notes:
// - Commands are exercised through runMain so flag parsing, config loading,
//   and exit codes are covered together. The clipboard is a fakeSurface.
// - Browser-backed delivery is covered by the clipboard package tests.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-mdpublish/internal/clipboard"
)

const sampleDoc = "# Release notes\n\nShip **it**.\n\n```go\nfunc main() {}\n```\n"

// ---------------------------------------------------------------------------
// copy
// ---------------------------------------------------------------------------

func TestCopyCommand_Stdin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(sampleDoc)
	if code := runMain([]string{"mdpublish", "copy", "--theme", "github", "-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}

	if got := env.stdout.String(); !strings.Contains(got, "Copied stdin (theme github, via structured)") {
		t.Errorf("stdout = %q", got)
	}
	html := env.surface.lastItem(clipboard.MIMEHTML)
	if !strings.Contains(html, `style="`) || !strings.Contains(html, "Release notes") {
		t.Errorf("clipboard HTML should be inline-styled, got %q", html)
	}
	if got := env.surface.lastItem(clipboard.MIMEText); got != sampleDoc {
		t.Errorf("clipboard text = %q, want the markdown source", got)
	}
}

func TestCopyCommand_Quiet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(sampleDoc)
	if code := runMain([]string{"mdpublish", "copy", "-q", "-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet copy printed %q", env.stdout.String())
	}
}

func TestCopyCommand_Print(t *testing.T) {
	t.Parallel()

	env := newTestEnv(sampleDoc)
	if code := runMain([]string{"mdpublish", "copy", "--print", "-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), `style="`) {
		t.Errorf("--print should emit inline-styled HTML, got %q", env.stdout.String())
	}
	if env.surface.writes() != 0 {
		t.Errorf("--print wrote to the clipboard %d times", env.surface.writes())
	}
}

func TestCopyCommand_Source(t *testing.T) {
	t.Parallel()

	env := newTestEnv(sampleDoc)
	if code := runMain([]string{"mdpublish", "copy", "--source", "-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}
	if got := env.surface.lastItem(clipboard.MIMEText); got != sampleDoc {
		t.Errorf("clipboard text = %q, want source", got)
	}
	if got := env.surface.lastItem(clipboard.MIMEHTML); got != "" {
		t.Errorf("source copy should carry no HTML, got %q", got)
	}
}

func TestCopyCommand_TooManyArgs(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if code := runMain([]string{"mdpublish", "copy", "a.md", "b.md"}, env.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestCopyCommand_UnknownStrategy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(sampleDoc)
	if code := runMain([]string{"mdpublish", "copy", "--strategy", "carrier-pigeon", "-"}, env.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d; stderr: %s", code, ExitUsage, env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// preview
// ---------------------------------------------------------------------------

func TestPreviewCommand(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(sampleDoc)
		if code := runMain([]string{"mdpublish", "preview", "-"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		out := env.stdout.String()
		if !strings.Contains(out, "<!DOCTYPE html>") || !strings.Contains(out, "<style>") {
			t.Errorf("preview should be a styled page, got %q", out)
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeMarkdown(t, dir, "doc.md", sampleDoc)
		output := filepath.Join(dir, "out", "doc.html")

		env := newTestEnv("")
		if code := runMain([]string{"mdpublish", "preview", "-o", output, input}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("reading preview: %v", err)
		}
		if !strings.Contains(string(data), "Release notes") {
			t.Errorf("preview missing content: %q", data)
		}
	})
}

// ---------------------------------------------------------------------------
// themes
// ---------------------------------------------------------------------------

func TestThemesCommand(t *testing.T) {
	t.Parallel()

	t.Run("table marks active theme", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if code := runMain([]string{"mdpublish", "themes", "--theme", "dark"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		out := env.stdout.String()
		for _, id := range []string{"default", "elegant", "github", "wechat"} {
			if !strings.Contains(out, id) {
				t.Errorf("themes output missing %q", id)
			}
		}
		if !strings.Contains(out, "dark *") {
			t.Errorf("active theme should be marked, got %q", out)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if code := runMain([]string{"mdpublish", "themes", "--yaml"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		var doc struct {
			Themes []struct {
				ID string `yaml:"id"`
			} `yaml:"themes"`
		}
		if err := yaml.Unmarshal(env.stdout.Bytes(), &doc); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, env.stdout.String())
		}
		if len(doc.Themes) != 5 || doc.Themes[0].ID != "default" {
			t.Errorf("themes = %+v, want 5 starting with default", doc.Themes)
		}
	})
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func TestExportCommand(t *testing.T) {
	t.Parallel()

	t.Run("default name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		env := newTestEnv(sampleDoc)
		if code := runMain([]string{"mdpublish", "export", "-o", dir, "-"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		want := filepath.Join(dir, "markdown_20240307_0905.md")
		data, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("snapshot not written: %v", err)
		}
		if string(data) != sampleDoc {
			t.Errorf("snapshot = %q, want source", data)
		}
		if !strings.Contains(env.stdout.String(), want) {
			t.Errorf("stdout = %q, want path", env.stdout.String())
		}
	})

	t.Run("custom format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		env := newTestEnv(sampleDoc)
		args := []string{"mdpublish", "export", "-o", dir, "--name-format", "[notes_]YYYY-MM-DD", "-"}
		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "notes_2024-03-07.md")); err != nil {
			t.Errorf("snapshot not written: %v", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if code := runMain([]string{"mdpublish", "export", "-o", t.TempDir(), "-"}, env.Environment); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

func TestConvertCommand_Directory(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	out := t.TempDir()
	writeMarkdown(t, in, "a.md", "# A\n")
	writeMarkdown(t, in, "nested/b.markdown", "# B\n")
	writeMarkdown(t, in, "skip.txt", "not markdown")

	env := newTestEnv("")
	if code := runMain([]string{"mdpublish", "convert", "-o", out, "-w", "2", in}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}

	for _, rel := range []string{"a.html", filepath.Join("nested", "b.html")} {
		data, err := os.ReadFile(filepath.Join(out, rel))
		if err != nil {
			t.Errorf("missing %s: %v", rel, err)
			continue
		}
		if !strings.Contains(string(data), `style="`) {
			t.Errorf("%s should hold inline-styled HTML", rel)
		}
	}
	if !strings.Contains(env.stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", env.stdout.String())
	}
}

func TestConvertCommand_Page(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "doc.md", sampleDoc)

	env := newTestEnv("")
	if code := runMain([]string{"mdpublish", "convert", "--page", input}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, env.stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "doc.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Errorf("--page should write a full page, got %q", data)
	}
}

func TestConvertCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no input", []string{"convert"}, ExitIO},
		{"bad extension", []string{"convert", txt}, ExitUsage},
		{"too many workers", []string{"convert", "-w", "99", dir}, ExitUsage},
		{"empty directory", []string{"convert", t.TempDir()}, ExitIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if code := runMain(append([]string{"mdpublish"}, tt.args...), env.Environment); code != tt.want {
				t.Errorf("exit code = %d, want %d; stderr: %s", code, tt.want, env.stderr.String())
			}
		})
	}
}

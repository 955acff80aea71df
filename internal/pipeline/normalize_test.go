package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/dom"
)

type fakeHighlighter struct {
	out   string
	err   error
	calls []string
}

func (f *fakeHighlighter) Highlight(code, lang string) (string, error) {
	f.calls = append(f.calls, lang+":"+code)
	return f.out, f.err
}

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	root, err := dom.ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	return root
}

func render(t *testing.T, root *html.Node) string {
	t.Helper()
	out, err := dom.RenderInner(root)
	if err != nil {
		t.Fatalf("RenderInner() error = %v", err)
	}
	return out
}

// ---------------------------------------------------------------------------
// Re-highlighting decisions
// ---------------------------------------------------------------------------

func TestNormalize_RehighlightDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		wantCalls int
	}{
		{"configured language always", `<pre><code class="language-java"><span class="k">x</span></code></pre>`, 1},
		{"unhighlighted block with tag", `<pre><code class="language-go">x := 1</code></pre>`, 1},
		{"highlighted block of other language", `<pre><code class="language-go"><span class="kd">var</span></code></pre>`, 0},
		{"no language tag", `<pre><code>plain</code></pre>`, 0},
		{"inline code", `<p><code class="language-java">x</code></p>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeHighlighter{out: `<span class="n">x</span>`}
			n := NewNormalizer(WithHighlighter(fake))
			if err := n.Normalize(context.Background(), parse(t, tt.markup)); err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(fake.calls) != tt.wantCalls {
				t.Errorf("highlighter calls = %v, want %d", fake.calls, tt.wantCalls)
			}
		})
	}
}

func TestNormalize_HighlighterReceivesPlainSource(t *testing.T) {
	t.Parallel()

	fake := &fakeHighlighter{out: "x"}
	root := parse(t, `<pre><code class="language-java"><span class="k">public</span> <span class="nf">f</span>()</code></pre>`)
	if err := NewNormalizer(WithHighlighter(fake)).Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "java:public f()" {
		t.Errorf("calls = %v", fake.calls)
	}
}

func TestNormalize_HighlighterFailureKeepsMarkup(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	fake := &fakeHighlighter{err: errors.New("lexer exploded")}

	root := parse(t, `<pre><code class="language-java">int x;</code></pre>`)
	n := NewNormalizer(WithHighlighter(fake), WithNormalizerLogger(logger))
	if err := n.Normalize(context.Background(), root); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if got := render(t, root); got != `<pre><code class="language-java">int x;</code></pre>` {
		t.Errorf("markup changed on failure: %s", got)
	}
	if !strings.Contains(logs.String(), "lexer exploded") {
		t.Errorf("failure not logged: %q", logs.String())
	}
}

// ---------------------------------------------------------------------------
// Annotation pass
// ---------------------------------------------------------------------------

func TestNormalize_AnnotationPass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		output   string
		wantMeta []string
	}{
		{
			name:     "bare annotation wrapped",
			output:   "@Override\npublic void f() {}",
			wantMeta: []string{"@Override"},
		},
		{
			name:     "already classified annotation not doubled",
			output:   `<span class="nd">@Override</span>` + "\n" + `<span class="kd">public</span>`,
			wantMeta: []string{"@Override"},
		},
		{
			name:     "inside comment skipped",
			output:   `<span class="c1">// @Deprecated soon</span>`,
			wantMeta: nil,
		},
		{
			name:     "inside string skipped",
			output:   `<span class="s">"@user"</span>`,
			wantMeta: nil,
		},
		{
			name:     "email address not an annotation",
			output:   "a@b.com",
			wantMeta: nil,
		},
		{
			name:     "several annotations",
			output:   "@A @B(x)",
			wantMeta: []string{"@A", "@B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := parse(t, `<pre><code class="language-java">src</code></pre>`)
			n := NewNormalizer(WithHighlighter(&fakeHighlighter{out: tt.output}))
			if err := n.Normalize(context.Background(), root); err != nil {
				t.Fatal(err)
			}

			var got []string
			dom.Select(root).Find("span.nd").Each(func(_ int, s *goquery.Selection) {
				got = append(got, s.Text())
			})
			if strings.Join(got, ",") != strings.Join(tt.wantMeta, ",") {
				t.Errorf("meta spans = %v, want %v\n%s", got, tt.wantMeta, render(t, root))
			}
		})
	}
}

func TestNormalize_AnnotationOnlyForConfiguredLanguages(t *testing.T) {
	t.Parallel()

	root := parse(t, `<pre><code class="language-python">src</code></pre>`)
	n := NewNormalizer(WithHighlighter(&fakeHighlighter{out: "@decorator\ndef f(): pass"}))
	if err := n.Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if dom.Select(root).Find("span.nd").Length() != 0 {
		t.Errorf("annotation pass ran for python: %s", render(t, root))
	}
}

// ---------------------------------------------------------------------------
// Rule application
// ---------------------------------------------------------------------------

func TestNormalize_RulesStyleTokenAndWrapper(t *testing.T) {
	t.Parallel()

	root := parse(t, `<pre><code class="language-go"><span class="kd">func</span> <span class="c1">// note</span></code></pre>`)
	if err := NewNormalizer().Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}

	kd := dom.Select(root).Find("span.kd").Get(0)
	if got := dom.StyleValue(kd, "color"); got != "#ff79c6" {
		t.Errorf("keyword color = %q", got)
	}
	if got := dom.StyleValue(kd, "font-weight"); got != "bold" {
		t.Errorf("keyword weight = %q", got)
	}

	wrapper := kd.FirstChild
	if wrapper == nil || wrapper.NextSibling != nil || wrapper.Data != "span" {
		t.Fatalf("keyword should have a single wrapper span: %s", render(t, root))
	}
	style, _ := dom.Attr(wrapper, "style")
	compat, _ := dom.Attr(wrapper, CompatStyleAttr)
	if style == "" || style != compat {
		t.Errorf("wrapper style %q and %s %q should match", style, CompatStyleAttr, compat)
	}
	if dom.TextContent(wrapper) != "func" {
		t.Errorf("wrapper text = %q", dom.TextContent(wrapper))
	}

	c1 := dom.Select(root).Find("span.c1").Get(0)
	if got := dom.StyleValue(c1, "font-style"); got != "italic" {
		t.Errorf("comment font-style = %q", got)
	}
	if got := dom.StyleValue(c1, "font-weight"); got != "" {
		t.Errorf("comment should not be bold, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	root := parse(t, `<pre><code class="language-go"><span class="kd">func</span> <span class="nf">main</span>() {}</code></pre>`)
	n := NewNormalizer()

	if err := n.Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	first := render(t, root)
	if err := n.Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if second := render(t, root); second != first {
		t.Errorf("second pass changed tree:\n%s\n%s", first, second)
	}
}

func TestNormalize_RealChromaJava(t *testing.T) {
	t.Parallel()

	root := parse(t, `<pre><code class="language-java">@Override
public void f(){}
</code></pre>`)
	if err := NewNormalizer().Normalize(context.Background(), root); err != nil {
		t.Fatal(err)
	}

	metas := dom.Select(root).Find("span.nd")
	if metas.Length() != 1 {
		t.Fatalf("meta spans = %d, want 1\n%s", metas.Length(), render(t, root))
	}
	if metas.Text() != "@Override" {
		t.Errorf("meta text = %q", metas.Text())
	}
	if got := dom.StyleValue(metas.Get(0), "color"); got != "#ff8c00" {
		t.Errorf("meta color = %q", got)
	}
	if !dom.HasClass(dom.Select(root).Find("pre").Get(0), "chroma") {
		t.Error("re-highlighted pre should carry the chroma class")
	}
}

func TestNormalize_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := parse(t, `<pre><code class="language-java">x</code></pre>`)
	if err := NewNormalizer().Normalize(ctx, root); !errors.Is(err, context.Canceled) {
		t.Errorf("Normalize() error = %v, want context.Canceled", err)
	}
}

func TestCodeLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class, want string
	}{
		{"language-Java", "java"},
		{"hl language-go", "go"},
		{"language-", ""},
		{"lang-go", ""},
		{"", ""},
	}
	for _, tt := range tests {
		n := dom.NewElement("code")
		if tt.class != "" {
			dom.SetAttr(n, "class", tt.class)
		}
		if got := CodeLanguage(n); got != tt.want {
			t.Errorf("CodeLanguage(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

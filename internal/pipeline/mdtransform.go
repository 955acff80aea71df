package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// ==highlight== placeholders use Private Use Area characters. They pass
// through goldmark untouched and become <mark> after rendering.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
	fenceOpen          = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// Preprocessor prepares markdown source before conversion.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// MarkdownPreprocessor normalizes line endings, then converts ==text== marks
// and compresses runs of blank lines. Fenced code is left verbatim.
type MarkdownPreprocessor struct{}

// Preprocess applies every source transformation.
func (MarkdownPreprocessor) Preprocess(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	return mapOutsideFences(content, func(prose string) string {
		prose = highlightPattern.ReplaceAllString(prose, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
		return multipleBlankLines.ReplaceAllString(prose, "\n\n")
	})
}

// mapOutsideFences applies fn to every stretch of content that is not inside
// a fenced code block. An unterminated fence runs to the end of the input.
func mapOutsideFences(content string, fn func(string) string) string {
	lines := strings.SplitAfter(content, "\n")

	var out, prose strings.Builder
	flush := func() {
		if prose.Len() > 0 {
			out.WriteString(fn(prose.String()))
			prose.Reset()
		}
	}

	fence := ""
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\n")
		if fence == "" {
			if m := fenceOpen.FindStringSubmatch(trimmed); m != nil {
				flush()
				fence = m[1]
				out.WriteString(line)
				continue
			}
			prose.WriteString(line)
			continue
		}

		out.WriteString(line)
		body := strings.TrimSpace(trimmed)
		if strings.HasPrefix(body, fence) && strings.Trim(body, fence[:1]) == "" {
			fence = ""
		}
	}
	flush()
	return out.String()
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

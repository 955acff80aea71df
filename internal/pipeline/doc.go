// Package pipeline turns markdown into a clipboard-portable document tree.
//
// Stages, in order:
//   - MarkdownPreprocessor: line endings, ==highlight== marks, blank lines
//   - GoldmarkConverter: markdown to an HTML fragment plus front matter
//   - Normalizer: code blocks re-highlighted where needed, token classes
//     projected into inline styles with compatibility wrappers
//   - Projector: every other visual property projected into inline styles,
//     code blocks given scroll containers and language badges
//
// PageRenderer and RewriteRelativePaths serve the themed preview page.
// Clipboard delivery lives in internal/clipboard.
package pipeline

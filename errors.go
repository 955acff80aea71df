package mdpublish

import (
	"errors"

	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/theme"
)

// Sentinel errors for library operations.
var (
	ErrEmptyContent     = errors.New("document content cannot be empty")
	ErrCopyInProgress   = errors.New("a copy is already in progress")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrRender           = errors.New("rendering failed")
	ErrExport           = errors.New("export failed")
	ErrInvalidTheme     = theme.ErrInvalidTheme
	ErrThemeNotFound    = theme.ErrThemeNotFound

	// Clipboard delivery errors, surfaced by CommitForPublishing.
	ErrBrowserConnect       = clipboard.ErrBrowserConnect
	ErrClipboardUnavailable = clipboard.ErrClipboardUnavailable
	ErrCopyFailed           = errors.New("clipboard copy failed")
)

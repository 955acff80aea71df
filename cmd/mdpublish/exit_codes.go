package main

import (
	"context"
	"errors"
	"os"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/clipboard"
	"github.com/alnah/go-mdpublish/internal/config"
	"github.com/alnah/go-mdpublish/internal/dateutil"
	"github.com/alnah/go-mdpublish/internal/hints"
)

// Exit codes for the mdpublish CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Command completed
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitBrowser   = 4 // Browser/Chrome errors
	ExitClipboard = 5 // Clipboard refused every strategy
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdpublish.ErrBrowserConnect) ||
		errors.Is(err, clipboard.ErrPageCreate) ||
		errors.Is(err, clipboard.ErrAttach) {
		return ExitBrowser
	}

	// Clipboard errors (exit 5)
	if errors.Is(err, mdpublish.ErrCopyFailed) ||
		errors.Is(err, mdpublish.ErrClipboardUnavailable) ||
		errors.Is(err, mdpublish.ErrCopyInProgress) {
		return ExitClipboard
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, mdpublish.ErrExport) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, clipboard.ErrUnknownStrategy) ||
		errors.Is(err, mdpublish.ErrEmptyContent) ||
		errors.Is(err, mdpublish.ErrThemeNotFound) ||
		errors.Is(err, mdpublish.ErrInvalidTheme) ||
		errors.Is(err, mdpublish.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns actionable advice for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdpublish.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdpublish.ErrCopyFailed), errors.Is(err, mdpublish.ErrClipboardUnavailable):
		return hints.ForClipboard()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("config"))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}

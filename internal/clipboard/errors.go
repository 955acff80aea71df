package clipboard

import "errors"

// Sentinel errors for clipboard delivery.
var (
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrWriteRejected        = errors.New("clipboard write rejected")
	ErrCopyCommandFailed    = errors.New("copy command failed")
	ErrAttach               = errors.New("attaching off-screen container failed")
	ErrStrategyPanic        = errors.New("delivery strategy panicked")
	ErrUnknownStrategy      = errors.New("unknown clipboard strategy")
	ErrBrowserConnect       = errors.New("browser connection failed")
	ErrPageCreate           = errors.New("browser page creation failed")
)

package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sysclip "golang.design/x/clipboard"
)

// Strategy names accepted in configuration.
const (
	StrategyStructured = "structured"
	StrategySelection  = "selection"
	StrategySystemText = "system-text"
)

// Outcome reports one delivery attempt.
type Outcome struct {
	OK     bool
	Reason string
	Err    error
}

// Strategy is one tier of the delivery fallback chain.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, c Container, p Payload) Outcome
}

func failed(reason string, err error) Outcome {
	return Outcome{Reason: reason, Err: err}
}

func delivered() Outcome {
	return Outcome{OK: true, Reason: "delivered"}
}

// ---------------------------------------------------------------------------
// Structured write
// ---------------------------------------------------------------------------

type structuredStrategy struct{}

// Structured writes text/html and text/plain in one ClipboardItem.
func Structured() Strategy { return structuredStrategy{} }

func (structuredStrategy) Name() string { return StrategyStructured }

func (structuredStrategy) Deliver(ctx context.Context, c Container, p Payload) Outcome {
	if err := ctx.Err(); err != nil {
		return failed("cancelled", err)
	}
	if err := c.WriteItems(ctx, p.Items()); err != nil {
		return failed(reasonFor(err), err)
	}
	return delivered()
}

// ---------------------------------------------------------------------------
// Selection copy
// ---------------------------------------------------------------------------

type selectionStrategy struct{}

// Selection selects the container's contents and issues the legacy copy
// command.
func Selection() Strategy { return selectionStrategy{} }

func (selectionStrategy) Name() string { return StrategySelection }

func (selectionStrategy) Deliver(ctx context.Context, c Container, _ Payload) Outcome {
	if err := ctx.Err(); err != nil {
		return failed("cancelled", err)
	}
	if err := c.CopySelection(ctx); err != nil {
		return failed(reasonFor(err), err)
	}
	return delivered()
}

// ---------------------------------------------------------------------------
// System plain text
// ---------------------------------------------------------------------------

var (
	sysInitOnce sync.Once
	sysInitErr  error
)

type systemTextStrategy struct {
	write func(text []byte) error
}

// SystemText writes only the plain-text representation to the host
// clipboard, bypassing the browser. Rich formatting is lost, so it is only
// used when configured.
func SystemText() Strategy {
	return systemTextStrategy{write: writeSystemText}
}

// SystemReady reports whether the host clipboard can be initialised.
func SystemReady() error {
	sysInitOnce.Do(func() { sysInitErr = sysclip.Init() })
	if sysInitErr != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, sysInitErr)
	}
	return nil
}

func writeSystemText(text []byte) error {
	if err := SystemReady(); err != nil {
		return err
	}
	sysclip.Write(sysclip.FmtText, text)
	return nil
}

func (systemTextStrategy) Name() string { return StrategySystemText }

func (s systemTextStrategy) Deliver(ctx context.Context, _ Container, p Payload) Outcome {
	if err := ctx.Err(); err != nil {
		return failed("cancelled", err)
	}
	if p.Text == "" {
		return failed("empty text", ErrWriteRejected)
	}
	if err := s.write([]byte(p.Text)); err != nil {
		return failed(reasonFor(err), err)
	}
	return delivered()
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// DefaultStrategies returns the structured write followed by the selection
// fallback.
func DefaultStrategies() []Strategy {
	return []Strategy{Structured(), Selection()}
}

// StrategiesByName builds a chain from configured names. An empty list
// yields DefaultStrategies.
func StrategiesByName(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return DefaultStrategies(), nil
	}
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyStructured:
			out = append(out, Structured())
		case StrategySelection:
			out = append(out, Selection())
		case StrategySystemText:
			out = append(out, SystemText())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}
	return out, nil
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrClipboardUnavailable):
		return "unavailable"
	case errors.Is(err, ErrWriteRejected):
		return "rejected"
	case errors.Is(err, ErrCopyCommandFailed):
		return "copy command refused"
	default:
		return "error"
	}
}

package clipboard

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultTimeout bounds one Commit call.
const DefaultTimeout = 10 * time.Second

// Attempt records the outcome of one strategy.
type Attempt struct {
	Strategy string
	OK       bool
	Reason   string
	Err      error
}

// Result reports a Commit call. Strategy names the winning strategy.
type Result struct {
	OK       bool
	Strategy string
	Attempts []Attempt
}

// Committer delivers payloads through an ordered chain of strategies.
type Committer struct {
	surface    Surface
	strategies []Strategy
	policy     *bluemonday.Policy
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Committer.
type Option func(*Committer)

// WithStrategies replaces the default chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Committer) {
		if len(strategies) > 0 {
			c.strategies = strategies
		}
	}
}

// WithPolicy replaces the hygiene policy. A nil policy disables sanitizing.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(c *Committer) { c.policy = p }
}

// WithTimeout bounds each Commit call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Committer) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Committer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCommitter creates a committer over surface with the default chain.
func NewCommitter(surface Surface, opts ...Option) *Committer {
	c := &Committer{
		surface:    surface,
		strategies: DefaultStrategies(),
		policy:     NewPolicy(),
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "clipboard")
	return c
}

// Strategies returns the configured chain names in order.
func (c *Committer) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Commit attaches the payload markup off-screen and tries each strategy in
// order, stopping at the first success. The container is detached exactly
// once on every path.
func (c *Committer) Commit(ctx context.Context, p Payload) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("commit panicked", "panic", r)
			res.OK = false
			res.Strategy = ""
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	markup := p.HTML
	if markup == "" {
		markup = "<pre>" + html.EscapeString(p.Text) + "</pre>"
	}
	if c.policy != nil {
		markup = c.policy.Sanitize(markup)
		if p.HTML != "" {
			p.HTML = markup
		}
	}

	container, err := c.attach(ctx, markup)
	if container != nil {
		defer c.detach(ctx, container)
	}
	if err != nil {
		c.logger.Warn("clipboard surface unavailable", "error", err)
		res.Attempts = append(res.Attempts, Attempt{Strategy: "attach", Reason: "attach failed", Err: err})
		return res
	}

	for _, s := range c.strategies {
		out := c.deliver(ctx, s, container, p)
		res.Attempts = append(res.Attempts, Attempt{Strategy: s.Name(), OK: out.OK, Reason: out.Reason, Err: out.Err})
		if out.OK {
			res.OK = true
			res.Strategy = s.Name()
			c.logger.Debug("payload delivered", "strategy", s.Name(), "attempts", len(res.Attempts))
			return res
		}
		c.logger.Warn("clipboard strategy failed", "strategy", s.Name(), "reason", out.Reason, "error", out.Err)
	}

	c.logger.Error("all clipboard strategies failed", "attempts", len(res.Attempts))
	return res
}

func (c *Committer) attach(ctx context.Context, markup string) (container Container, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAttach, r)
		}
	}()
	if c.surface == nil {
		return nil, fmt.Errorf("%w: no surface", ErrClipboardUnavailable)
	}
	return c.surface.Attach(ctx, markup)
}

func (c *Committer) deliver(ctx context.Context, s Strategy, container Container, p Payload) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed("panic", fmt.Errorf("%w: %s: %v", ErrStrategyPanic, s.Name(), r))
		}
	}()
	return s.Deliver(ctx, container, p)
}

// detach runs on a context detached from cancellation so a timed-out
// commit still cleans up.
func (c *Committer) detach(ctx context.Context, container Container) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("detach panicked", "panic", r)
		}
	}()
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := container.Detach(dctx); err != nil {
		c.logger.Warn("detaching container failed", "error", err)
	}
}

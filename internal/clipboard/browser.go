package clipboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpublish/internal/process"
)

// BrowserOptions configures the Chrome instance behind a BrowserSurface.
type BrowserOptions struct {
	Bin        string        // browser binary; ROD_BROWSER_BIN when empty
	ControlURL string        // connect to a running browser instead of launching
	Headless   bool          // run without a window
	NoSandbox  bool          // disable the sandbox (containers, CI)
	Timeout    time.Duration // per-call bound when ctx has no deadline
}

// BrowserSurface attaches containers to a blank page of a Chrome instance
// driven through go-rod. The browser is started lazily on first Attach.
type BrowserSurface struct {
	opts   BrowserOptions
	logger *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	seq      atomic.Uint64
}

// NewBrowserSurface creates a surface. Nothing is launched until Attach.
func NewBrowserSurface(opts BrowserOptions, logger *slog.Logger) *BrowserSurface {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &BrowserSurface{opts: opts, logger: logger.With("component", "browser")}
}

// ensurePage lazily connects to the browser and opens the blank page.
func (s *BrowserSurface) ensurePage() (*rod.Page, error) {
	if s.page != nil {
		return s.page, nil
	}
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	grant := proto.BrowserGrantPermissions{Permissions: []proto.BrowserPermissionType{
		proto.BrowserPermissionTypeClipboardReadWrite,
		proto.BrowserPermissionTypeClipboardSanitizedWrite,
	}}
	if err := grant.Call(s.browser); err != nil {
		// The selection fallback still works without the grant.
		s.logger.Debug("clipboard permission grant refused", "error", err)
	}

	s.page = page
	return page, nil
}

func (s *BrowserSurface) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	u := s.opts.ControlURL
	if u == "" {
		l := launcher.New().Headless(s.opts.Headless)

		bin := s.opts.Bin
		if bin == "" {
			bin = os.Getenv("ROD_BROWSER_BIN")
		}
		if bin != "" {
			l = l.Bin(bin)
		}

		// NoSandbox required for CI and containerized environments
		if s.opts.NoSandbox || os.Getenv("CI") == "true" || bin != "" {
			l = l.NoSandbox(true)
		}

		launched, err := l.Launch()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		s.launcher = l
		u = launched
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		s.killLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.browser = b
	s.logger.Debug("browser connected", "remote", s.opts.ControlURL != "")
	return nil
}

// Attach appends markup to the page body inside an off-screen editable div.
func (s *BrowserSurface) Attach(ctx context.Context, markup string) (Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	page, err := s.ensurePage()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("mdpublish-clip-%d", s.seq.Add(1))
	if _, err := s.bind(ctx, page).Eval(attachJS, id, markup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttach, err)
	}
	return &browserContainer{surface: s, page: page, id: id}, nil
}

// bind scopes page calls to ctx, or to the configured timeout when ctx has
// no deadline.
func (s *BrowserSurface) bind(ctx context.Context, page *rod.Page) *rod.Page {
	p := page.Context(ctx)
	if _, ok := ctx.Deadline(); !ok {
		p = p.Timeout(s.opts.Timeout)
	}
	return p
}

// Close releases browser resources. A remote browser is left running.
func (s *BrowserSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.page != nil {
		err = s.page.Close()
		s.page = nil
	}
	if s.browser != nil && s.launcher != nil {
		if cerr := s.browser.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.browser = nil
	s.killLauncher()
	return err
}

func (s *BrowserSurface) killLauncher() {
	if s.launcher == nil {
		return
	}
	if pid := s.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	s.launcher = nil
}

// Compile-time interface checks
var (
	_ Surface   = (*BrowserSurface)(nil)
	_ Container = (*browserContainer)(nil)
)

// ---------------------------------------------------------------------------
// Container
// ---------------------------------------------------------------------------

type browserContainer struct {
	surface *BrowserSurface
	page    *rod.Page
	id      string
}

func (c *browserContainer) WriteItems(ctx context.Context, items []Item) error {
	res, err := c.surface.bind(ctx, c.page).Evaluate(rod.Eval(writeItemsJS, items).ByUser().ByPromise())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	if reason := res.Value.Str(); reason != "" {
		if reason == "unavailable" {
			return ErrClipboardUnavailable
		}
		return fmt.Errorf("%w: %s", ErrWriteRejected, reason)
	}
	return nil
}

func (c *browserContainer) CopySelection(ctx context.Context) error {
	res, err := c.surface.bind(ctx, c.page).Evaluate(rod.Eval(copySelectionJS, c.id).ByUser())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCopyCommandFailed, err)
	}
	if !res.Value.Bool() {
		return ErrCopyCommandFailed
	}
	return nil
}

func (c *browserContainer) Detach(ctx context.Context) error {
	_, err := c.surface.bind(ctx, c.page).Eval(detachJS, c.id)
	return err
}

const attachJS = `(id, markup) => {
	const el = document.createElement('div');
	el.id = id;
	el.contentEditable = 'true';
	el.style.cssText = 'position:absolute;left:-9999px;top:0;';
	el.innerHTML = markup;
	document.body.appendChild(el);
	return id;
}`

const writeItemsJS = `async (items) => {
	if (!navigator.clipboard || typeof ClipboardItem === 'undefined') {
		return 'unavailable';
	}
	const data = {};
	for (const it of items) {
		data[it.mime] = new Blob([it.data], { type: it.mime });
	}
	try {
		await navigator.clipboard.write([new ClipboardItem(data)]);
		return '';
	} catch (e) {
		return String(e && e.message || e || 'rejected');
	}
}`

const copySelectionJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return false;
	const range = document.createRange();
	range.selectNodeContents(el);
	const sel = window.getSelection();
	sel.removeAllRanges();
	sel.addRange(range);
	let ok = false;
	try {
		ok = document.execCommand('copy');
	} finally {
		sel.removeAllRanges();
	}
	return ok;
}`

const detachJS = `(id) => {
	const el = document.getElementById(id);
	if (el) el.remove();
}`

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/config"
	"github.com/alnah/go-mdpublish/internal/fileutil"
)

// watchSession is an interactive session over one markdown file: saves are
// recorded into the history, stdin lines drive the session.
type watchSession struct {
	session *mdpublish.Session
	pub     *mdpublish.Publisher
	path    string
	export  string
	env     *Environment
	logger  *slog.Logger
}

// runWatch follows a file and accepts commands until quit, end of input,
// or a signal.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseWatchFlags(args, env)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: watch needs exactly one markdown file", ErrNoInput)
	}
	path := fs.Arg(0)
	if err := validateMarkdownExtension(path); err != nil {
		return err
	}

	s, err := prepare(&flags.common, fs, &flags.clipboard, env)
	if err != nil {
		return err
	}
	if flags.history < 0 || flags.history > config.MaxHistoryCapacity {
		return fmt.Errorf("%w: --history must be between 0 and %d", ErrUsage, config.MaxHistoryCapacity)
	}
	if flags.history > 0 {
		s.cfg.History.Capacity = flags.history
	}

	content, err := readInput(path, env)
	if err != nil {
		return err
	}

	pub, err := s.newPublisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	w := &watchSession{
		session: newSession(pub, s, env, mdpublish.WithSourceDir(filepath.Dir(path))),
		pub:     pub,
		path:    filepath.Clean(path),
		export:  s.cfg.Export.Dir,
		env:     env,
		logger:  s.logger.With("component", "watch"),
	}
	w.session.SetContent(content)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintf(env.Stdout, "Watching %s (theme %s). Type 'help' for commands.\n", path, w.session.Theme().ID)
	return w.loop(ctx, watcher, readLines(ctx, env))
}

// readLines streams stdin lines. The channel closes at end of input or once
// ctx is done.
func readLines(ctx context.Context, env *Environment) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(env.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (w *watchSession) loop(ctx context.Context, watcher *fsnotify.Watcher, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", slog.Any("err", err))
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := w.handleCommand(ctx, line); quit {
				return nil
			}
		}
	}
}

// handleEvent records a save of the watched file.
func (w *watchSession) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	w.logger.Debug("fsnotify event", slog.String("path", event.Name), slog.String("op", event.Op.String()))

	data, err := os.ReadFile(w.path)
	if err != nil {
		// A rename-over save can briefly leave no file behind.
		w.logger.Debug("reload skipped", slog.Any("err", err))
		return
	}
	if w.session.SetContent(string(data)) {
		fmt.Fprintf(w.env.Stdout, "Recorded change to %s\n", w.path)
	}
}

// handleCommand runs one stdin command and reports whether to quit.
func (w *watchSession) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	out := w.env.Stdout
	cmd, arg := strings.ToLower(fields[0]), ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printWatchCommands(out)
	case "copy":
		if res, err := w.session.CommitForPublishing(ctx); err != nil {
			fmt.Fprintf(out, "copy failed: %v%s\n", err, hintFor(err))
		} else {
			fmt.Fprintf(out, "Copied (via %s)\n", res.Strategy)
		}
	case "source":
		if w.session.CopySource(ctx) {
			fmt.Fprintln(out, "Copied markdown source")
		} else {
			fmt.Fprintln(out, "copy failed")
		}
	case "undo":
		if w.session.Undo() {
			fmt.Fprintln(out, "Restored previous snapshot")
		} else {
			fmt.Fprintln(out, "Nothing to undo")
		}
	case "redo":
		if w.session.Redo() {
			fmt.Fprintln(out, "Restored next snapshot")
		} else {
			fmt.Fprintln(out, "Nothing to redo")
		}
	case "theme":
		if arg == "" {
			fmt.Fprintf(out, "Theme: %s (available: %s)\n", w.session.Theme().ID, strings.Join(w.pub.ThemeIDs(), ", "))
			break
		}
		th := w.session.SetTheme(arg)
		if th.ID != arg {
			fmt.Fprintf(out, "Unknown theme %q, using %s\n", arg, th.ID)
		} else {
			fmt.Fprintf(out, "Theme: %s\n", th.ID)
		}
	case "export":
		dir := w.export
		if arg != "" {
			dir = arg
		}
		if path, err := w.session.Export(dir); err != nil {
			fmt.Fprintf(out, "export failed: %v\n", err)
		} else {
			fmt.Fprintf(out, "Created %s\n", path)
		}
	case "preview":
		w.writePreview(ctx, arg)
	case "status":
		fmt.Fprintf(out, "Theme: %s, %d bytes, undo: %t, redo: %t\n",
			w.session.Theme().ID, len(w.session.Content()), w.session.CanUndo(), w.session.CanRedo())
	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}
	return false
}

// writePreview writes the preview page next to the watched file unless a
// path is given.
func (w *watchSession) writePreview(ctx context.Context, path string) {
	out := w.env.Stdout
	if path == "" {
		path = fileutil.ReplaceExt(w.path, ".preview.html")
	}
	page, err := w.session.Preview(ctx)
	if err != nil {
		fmt.Fprintf(out, "preview failed: %v\n", err)
		return
	}
	if err := fileutil.WriteFileAtomic(path, []byte(page), filePermissions); err != nil {
		fmt.Fprintf(out, "preview failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Created %s\n", path)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for flag handling.
var (
	ErrUsage = errors.New("invalid usage")

	// errHelpShown stops a command after -h printed its usage.
	errHelpShown = errors.New("help shown")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	timeout   string
	theme     string
	assetPath string
}

// clipboardFlags holds clipboard delivery flags.
type clipboardFlags struct {
	strategies string
	headless   bool
	noSandbox  bool
	controlURL string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render and clipboard timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.theme, "theme", "", "theme id (see 'mdpublish themes')")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addClipboardFlags adds clipboard delivery flags to a FlagSet.
func addClipboardFlags(fs *flag.FlagSet, f *clipboardFlags) {
	fs.StringVar(&f.strategies, "strategy", "", "ordered strategies: structured,selection,system-text")
	fs.BoolVar(&f.headless, "headless", true, "run the clipboard browser without a window")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the browser sandbox (Docker/CI)")
	fs.StringVar(&f.controlURL, "control-url", "", "attach to a running Chrome DevTools endpoint")
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFlagSet parses args, printing usage to stdout on -h.
func parseFlagSet(fs *flag.FlagSet, args []string, usage func(io.Writer), stdout io.Writer) error {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stdout)
			return errHelpShown
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// copyFlags holds flags for the copy command.
type copyFlags struct {
	common    commonFlags
	clipboard clipboardFlags
	source    bool
	print     bool
}

func parseCopyFlags(args []string, env *Environment) (*copyFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	f := &copyFlags{}
	addCommonFlags(fs, &f.common)
	addClipboardFlags(fs, &f.clipboard)
	fs.BoolVar(&f.source, "source", false, "copy the markdown source as plain text")
	fs.BoolVar(&f.print, "print", false, "print the paste-ready HTML instead of copying")
	return f, fs, parseFlagSet(fs, args, printCopyUsage, env.Stdout)
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	output string
}

func parsePreviewFlags(args []string, env *Environment) (*previewFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	f := &previewFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	return f, fs, parseFlagSet(fs, args, printPreviewUsage, env.Stdout)
}

// convertFlags holds flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	page    bool
}

func parseConvertFlags(args []string, env *Environment) (*convertFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.page, "page", false, "write standalone preview pages instead of paste-ready fragments")
	return f, fs, parseFlagSet(fs, args, printConvertUsage, env.Stdout)
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common    commonFlags
	clipboard clipboardFlags
	history   int
}

func parseWatchFlags(args []string, env *Environment) (*watchFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	f := &watchFlags{}
	addCommonFlags(fs, &f.common)
	addClipboardFlags(fs, &f.clipboard)
	fs.IntVar(&f.history, "history", 0, "undo depth (0 = config or default)")
	return f, fs, parseFlagSet(fs, args, printWatchUsage, env.Stdout)
}

// themesFlags holds flags for the themes command.
type themesFlags struct {
	common commonFlags
	yaml   bool
}

func parseThemesFlags(args []string, env *Environment) (*themesFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("themes", flag.ContinueOnError)
	f := &themesFlags{}
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.yaml, "yaml", false, "print themes as YAML (config themes: format)")
	return f, fs, parseFlagSet(fs, args, printThemesUsage, env.Stdout)
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common commonFlags
	output string
	format string
}

func parseExportFlags(args []string, env *Environment) (*exportFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "snapshot directory")
	fs.StringVar(&f.format, "name-format", "", "file name pattern (e.g., [notes_]YYYYMMDD)")
	return f, fs, parseFlagSet(fs, args, printExportUsage, env.Stdout)
}

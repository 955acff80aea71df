package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mdpublish/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand indicates a command name the CLI does not know.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commands maps command names to their handlers.
var commands = map[string]func(ctx context.Context, args []string, env *Environment) error{
	"copy":    runCopy,
	"preview": runPreview,
	"convert": runConvert,
	"watch":   runWatch,
	"themes":  runThemes,
	"export":  runExport,
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	switch name {
	case "help", "version", "doctor":
		return true
	}
	_, ok := commands[name]
	return ok
}

// looksLikeMarkdown reports whether arg names a markdown file, so that
// "mdpublish notes.md" can mean "mdpublish copy notes.md".
func looksLikeMarkdown(arg string) bool {
	return fileutil.IsMarkdown(arg)
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	name, rest := args[1], args[2:]
	switch name {
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdpublish %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	run, ok := commands[name]
	if !ok {
		if !looksLikeMarkdown(name) {
			fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, name)
			printUsage(env.Stderr)
			return ExitUsage
		}
		run, rest = runCopy, args[1:]
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, rest, env); err != nil {
		if errors.Is(err, errHelpShown) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

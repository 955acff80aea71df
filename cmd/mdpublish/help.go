package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  copy       Copy a themed, paste-ready document to the clipboard")
	fmt.Fprintln(w, "  preview    Render the themed preview page")
	fmt.Fprintln(w, "  convert    Write paste-ready HTML for files or directories")
	fmt.Fprintln(w, "  watch      Follow a file with undo/redo and copy on demand")
	fmt.Fprintln(w, "  themes     List available themes")
	fmt.Fprintln(w, "  export     Save a timestamped markdown snapshot")
	fmt.Fprintln(w, "  doctor     Check browser and clipboard readiness")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'mdpublish <file.md>' is short for 'mdpublish copy <file.md>'.")
	fmt.Fprintln(w, "Run 'mdpublish help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --theme <id>          Theme id (see 'mdpublish themes')")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render and clipboard timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printClipboardFlags(w io.Writer) {
	fmt.Fprintln(w, "Clipboard:")
	fmt.Fprintln(w, "      --strategy <list>     Ordered strategies: structured,selection,system-text")
	fmt.Fprintln(w, "      --headless            Run the clipboard browser without a window (default true)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the browser sandbox (Docker/CI)")
	fmt.Fprintln(w, "      --control-url <url>   Attach to a running Chrome DevTools endpoint")
}

// printCopyUsage prints usage for the copy command.
func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish copy [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown with inline styles and place it on the clipboard as")
	fmt.Fprintln(w, "HTML plus the markdown source as plain text. Reads stdin when no file")
	fmt.Fprintln(w, "is given or the file is '-'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy:")
	fmt.Fprintln(w, "      --source              Copy the markdown source as plain text only")
	fmt.Fprintln(w, "      --print               Print the paste-ready HTML instead of copying")
	fmt.Fprintln(w)
	printClipboardFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish preview [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the themed preview page (stylesheet-based, not inlined).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default: stdout)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write paste-ready HTML for a markdown file or every markdown file in a")
	fmt.Fprintln(w, "directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --page                Write standalone preview pages instead")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish watch <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Follow a markdown file. Every save is recorded in the undo history;")
	fmt.Fprintln(w, "commands read from stdin act on the current snapshot.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History:")
	fmt.Fprintln(w, "      --history <n>         Undo depth (0 = config or default)")
	fmt.Fprintln(w)
	printClipboardFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	printWatchCommands(w)
}

// printWatchCommands lists the interactive watch commands.
func printWatchCommands(w io.Writer) {
	fmt.Fprintln(w, "Session commands:")
	fmt.Fprintln(w, "  copy               Copy the themed document")
	fmt.Fprintln(w, "  source             Copy the markdown source")
	fmt.Fprintln(w, "  undo, redo         Move through recorded snapshots")
	fmt.Fprintln(w, "  theme [id]         Show or switch the theme")
	fmt.Fprintln(w, "  export [dir]       Save the current snapshot")
	fmt.Fprintln(w, "  preview [path]     Write the preview page")
	fmt.Fprintln(w, "  status             Show session state")
	fmt.Fprintln(w, "  quit               Leave the session")
}

// printThemesUsage prints usage for the themes command.
func printThemesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish themes [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the built-in and configured themes. The active theme is marked *.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --yaml                Print themes in config 'themes:' format")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpublish export [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save the markdown as a timestamped snapshot file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Snapshot directory (default: config or .)")
	fmt.Fprintln(w, "      --name-format <s>     Name pattern, default [markdown_]YYYYMMDD[_]HHmm")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MM, DD, HH, mm, ss")
	fmt.Fprintln(w, "                            Use [text] to escape literals")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "copy":
		printCopyUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "themes":
		printThemesUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdpublish doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser and clipboard readiness.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpublish version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpublish help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

package main

import (
	"context"
	"fmt"
	"path/filepath"

	mdpublish "github.com/alnah/go-mdpublish"
)

// runCopy renders one document and copies it to the clipboard.
func runCopy(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseCopyFlags(args, env)
	if err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: copy takes one input, got %d", ErrUsage, fs.NArg())
	}

	s, err := prepare(&flags.common, fs, &flags.clipboard, env)
	if err != nil {
		return err
	}

	input := fs.Arg(0)
	content, err := readInput(input, env)
	if err != nil {
		return err
	}

	pub, err := s.newPublisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	if flags.print {
		markup, err := pub.Publish(ctx, content, s.cfg.Theme.Default)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, markup)
		return nil
	}

	session := newSession(pub, s, env, mdpublish.WithSourceDir(sourceDirOf(input)))
	session.SetContent(content)

	if flags.source {
		if !session.CopySource(ctx) {
			return fmt.Errorf("%w: source text", mdpublish.ErrCopyFailed)
		}
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "Copied markdown source")
		}
		return nil
	}

	rendering, err := session.Render(ctx)
	if err != nil {
		return err
	}
	res, err := session.CommitForPublishing(ctx)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Copied %s (theme %s, via %s)\n", displayName(input), rendering.Theme.ID, res.Strategy)
	}
	return nil
}

// sourceDirOf returns the directory relative paths in input resolve against.
func sourceDirOf(input string) string {
	if input == "" || input == "-" {
		return ""
	}
	return filepath.Dir(input)
}

// displayName names an input for messages.
func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

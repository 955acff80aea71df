package main

import (
	"context"
	"fmt"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/fileutil"
)

// runPreview writes the themed preview page for one document.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parsePreviewFlags(args, env)
	if err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: preview takes one input, got %d", ErrUsage, fs.NArg())
	}

	s, err := prepare(&flags.common, nil, nil, env)
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

	session := newSession(pub, s, env, mdpublish.WithSourceDir(sourceDirOf(input)))
	session.SetContent(content)

	page, err := session.Preview(ctx)
	if err != nil {
		return err
	}

	if flags.output == "" {
		fmt.Fprint(env.Stdout, page)
		return nil
	}
	if err := fileutil.WriteFileAtomic(flags.output, []byte(page), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

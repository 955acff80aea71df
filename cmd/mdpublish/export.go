package main

import (
	"context"
	"fmt"

	mdpublish "github.com/alnah/go-mdpublish"
)

// runExport writes a timestamped snapshot of a document.
func runExport(_ context.Context, args []string, env *Environment) error {
	flags, fs, err := parseExportFlags(args, env)
	if err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: export takes one input, got %d", ErrUsage, fs.NArg())
	}

	s, err := prepare(&flags.common, nil, nil, env)
	if err != nil {
		return err
	}

	content, err := readInput(fs.Arg(0), env)
	if err != nil {
		return err
	}

	pub, err := s.newPublisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	var extra []mdpublish.SessionOption
	if flags.format != "" {
		extra = append(extra, mdpublish.WithExportFormat(flags.format))
	}
	session := newSession(pub, s, env, extra...)
	session.SetContent(content)

	dir := flags.output
	if dir == "" {
		dir = s.cfg.Export.Dir
	}
	path, err := session.Export(dir)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	return nil
}

// newSession opens a session configured from s.
func newSession(pub *mdpublish.Publisher, s *setup, env *Environment, extra ...mdpublish.SessionOption) *mdpublish.Session {
	opts := []mdpublish.SessionOption{
		mdpublish.WithClock(env.Now),
		mdpublish.WithExportFormat(s.cfg.Export.NameFormat),
	}
	if s.cfg.History.Capacity > 0 {
		opts = append(opts, mdpublish.WithHistoryCapacity(s.cfg.History.Capacity))
	}
	return mdpublish.NewSession(pub, append(opts, extra...)...)
}

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/alnah/go-mdpublish/internal/config"
	"github.com/alnah/go-mdpublish/internal/yamlutil"
)

// runThemes lists the registered themes, built-in then custom.
func runThemes(_ context.Context, args []string, env *Environment) error {
	flags, _, err := parseThemesFlags(args, env)
	if err != nil {
		return err
	}

	s, err := prepare(&flags.common, nil, nil, env)
	if err != nil {
		return err
	}
	pub, err := s.newPublisher()
	if err != nil {
		return err
	}
	defer pub.Close()

	themes := pub.Themes()
	active := pub.DefaultTheme().ID

	if flags.yaml {
		entries := make([]config.ThemeEntry, len(themes))
		for i, t := range themes {
			entries[i] = config.ThemeEntry{
				ID:          t.ID,
				Name:        t.Name,
				CSSFile:     t.CSSFile,
				Description: t.Description,
				Variables:   t.Variables,
			}
		}
		data, err := yamlutil.Marshal(struct {
			Themes []config.ThemeEntry `yaml:"themes"`
		}{entries})
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, t := range themes {
		id := t.ID
		if id == active {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, t.Name, t.Description)
	}
	return tw.Flush()
}

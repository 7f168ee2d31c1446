package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/portfolio/internal/markdown"
	"github.com/templui/portfolio/internal/model"
)

// SeedCmd loads a content directory written as markdown with front matter:
//
//	profile.md        front matter is the profile, body is the bio
//	projects/*.md     body is the description
//	certificates/*.md
//	problems/*.md     body is the notes
func SeedCmd(env *Env) *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "seed <dir>",
		Short: "Create portfolio content from a directory of markdown files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &seeder{env: env, parser: markdown.NewParser(), dryRun: dryRun}
			return s.run(cmd.Context(), os.DirFS(args[0]))
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "parse and print without creating anything")
	return c
}

type seeder struct {
	env    *Env
	parser *markdown.Parser
	dryRun bool
	count  int
}

func (s *seeder) run(ctx context.Context, fsys fs.FS) error {
	err := s.profile(ctx, fsys)
	if err != nil {
		return err
	}

	err = seedDir(s, fsys, "projects", "description", func(in model.ProjectInput) error {
		_, err := s.env.Client.Projects.Create(ctx, in)
		return err
	})
	if err != nil {
		return err
	}

	err = seedDir(s, fsys, "certificates", "", func(in model.CertificateInput) error {
		_, err := s.env.Client.Certificates.Create(ctx, in)
		return err
	})
	if err != nil {
		return err
	}

	err = seedDir(s, fsys, "problems", "notes", func(in model.DSAProblemInput) error {
		_, err := s.env.Client.Problems.Create(ctx, in)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("seed finished", "entries", s.count, "dry_run", s.dryRun)
	return nil
}

func (s *seeder) profile(ctx context.Context, fsys fs.FS) error {
	var patch model.ProfilePatch
	found, err := s.decode(fsys, "profile.md", "bio", &patch)
	if err != nil || !found {
		return err
	}

	if s.dryRun {
		s.count++
		return s.env.print(patch)
	}
	_, err = s.env.Client.Profile.Update(ctx, patch)
	if err != nil {
		return fmt.Errorf("profile.md: %w", err)
	}
	s.count++
	return nil
}

// seedDir creates one entry per markdown file in dir, in name order.
// A missing dir is skipped.
func seedDir[In any](s *seeder, fsys fs.FS, dir, bodyField string, create func(In) error) error {
	names, err := fs.Glob(fsys, dir+"/*.md")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		var in In
		_, err := s.decode(fsys, name, bodyField, &in)
		if err != nil {
			return err
		}

		if s.dryRun {
			err = s.env.print(in)
		} else {
			err = create(in)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.count++
		slog.Debug("seeded", "file", name)
	}
	return nil
}

// decode reads front matter and body into out. Front matter keys use the same
// names as the JSON API, and the body lands in bodyField when it is set.
func (s *seeder) decode(fsys fs.FS, name, bodyField string, out any) (bool, error) {
	source, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	meta := map[string]any{}
	body, err := s.parser.Split(source, &meta)
	if err != nil {
		return false, fmt.Errorf("%s: invalid front matter: %w", filepath.ToSlash(name), err)
	}
	for k, v := range meta {
		// unquoted YAML dates decode as timestamps
		if t, ok := v.(time.Time); ok {
			meta[k] = t.Format(time.DateOnly)
		}
	}
	if body = strings.TrimSpace(body); body != "" && bodyField != "" {
		meta[bodyField] = body
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	err = json.Unmarshal(raw, out)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

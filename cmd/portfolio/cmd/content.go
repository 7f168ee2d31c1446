package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/templui/portfolio/internal/client"
	"github.com/templui/portfolio/internal/model"
)

type collection[T, In, Patch any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, patch Patch) (T, error)
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, onChange func([]T)) error
}

type imageUploader interface {
	UploadImage(ctx context.Context, up client.Upload) (string, error)
}

func ProjectsCmd(env *Env) *cobra.Command {
	c := collectionCmd[*model.Project, model.ProjectInput, model.ProjectPatch](env, "projects", "project",
		func() collection[*model.Project, model.ProjectInput, model.ProjectPatch] { return env.Client.Projects })
	c.AddCommand(imageCmd(env, func() imageUploader { return env.Client.Projects }))
	return c
}

func CertificatesCmd(env *Env) *cobra.Command {
	c := collectionCmd[*model.Certificate, model.CertificateInput, model.CertificatePatch](env, "certificates", "certificate",
		func() collection[*model.Certificate, model.CertificateInput, model.CertificatePatch] {
			return env.Client.Certificates
		})
	c.AddCommand(imageCmd(env, func() imageUploader { return env.Client.Certificates }))
	return c
}

func ProblemsCmd(env *Env) *cobra.Command {
	return collectionCmd[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch](env, "problems", "problem",
		func() collection[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch] {
			return env.Client.Problems
		})
}

// collectionCmd wires list/add/update/delete/watch for one table. get is called
// after Connect, once the client exists.
func collectionCmd[T, In, Patch any](env *Env, use, noun string, get func() collection[T, In, Patch]) *cobra.Command {
	root := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("List and edit %s", use),
	}

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, newest first", use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := get().List(cmd.Context())
			if err != nil {
				return err
			}
			return env.print(rows)
		},
	})

	var addFile string
	add := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s from JSON", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in In
			err := readJSON(addFile, &in)
			if err != nil {
				return err
			}
			row, err := get().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return env.print(row)
		},
	}
	add.Flags().StringVarP(&addFile, "file", "f", "-", "JSON file, - for stdin")
	root.AddCommand(add)

	var patchFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Change fields of a %s from JSON", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch Patch
			err := readJSON(patchFile, &patch)
			if err != nil {
				return err
			}
			row, err := get().Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return env.print(row)
		},
	}
	update.Flags().StringVarP(&patchFile, "file", "f", "-", "JSON file, - for stdin")
	root.AddCommand(update)

	root.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().Delete(cmd.Context(), args[0])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: fmt.Sprintf("Print the %s list every time it changes", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := get().Watch(ctx, func(rows []T) {
				_ = env.print(rows)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	})

	return root
}

func imageCmd(env *Env, get func() imageUploader) *cobra.Command {
	return &cobra.Command{
		Use:   "image <path>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, f, err := client.FileFromPath(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := get().UploadImage(cmd.Context(), up)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(env.Out, url)
			return err
		},
	}
}

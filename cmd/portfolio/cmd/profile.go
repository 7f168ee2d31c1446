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

func ProfileCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the profile",
	}

	root.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := env.Client.Profile.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			return env.print(profile)
		},
	})

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or update the profile from JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ProfilePatch
			err := readJSON(file, &patch)
			if err != nil {
				return err
			}
			profile, err := env.Client.Profile.Update(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return env.print(profile)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "-", "JSON file, - for stdin")
	root.AddCommand(set)

	root.AddCommand(&cobra.Command{
		Use:   "avatar <path>",
		Short: "Upload a new avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, f, err := client.FileFromPath(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			profile, err := env.Client.Profile.UploadAvatar(cmd.Context(), up)
			if err != nil {
				return err
			}
			return env.print(profile)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print the profile every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := env.Client.Profile.Watch(ctx, func(p *model.Profile) {
				if p == nil {
					fmt.Fprintln(env.Out, "null")
					return
				}
				_ = env.print(p)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	})

	return root
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/portfolio/cmd/portfolio/cmd"
)

func main() {
	env := &cmd.Env{}

	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Manage a portfolio from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return env.Connect(c.Context())
		},
	}
	env.Flags(rootCmd)

	rootCmd.AddCommand(cmd.SignInCmd(env))
	rootCmd.AddCommand(cmd.SignOutCmd(env))
	rootCmd.AddCommand(cmd.WhoAmICmd(env))
	rootCmd.AddCommand(cmd.ProjectsCmd(env))
	rootCmd.AddCommand(cmd.CertificatesCmd(env))
	rootCmd.AddCommand(cmd.ProblemsCmd(env))
	rootCmd.AddCommand(cmd.ProfileCmd(env))
	rootCmd.AddCommand(cmd.SeedCmd(env))
	rootCmd.AddCommand(cmd.ContactCmd(env))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

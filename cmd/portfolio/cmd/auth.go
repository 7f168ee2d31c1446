package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func SignInCmd(env *Env) *cobra.Command {
	var email, password string

	c := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PORTFOLIO_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := env.Client.Session.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			err = env.saveToken(env.Client.Session.Token())
			if err != nil {
				return fmt.Errorf("signed in but failed to store token: %w", err)
			}
			return env.print(user)
		},
	}

	c.Flags().StringVar(&email, "email", os.Getenv("PORTFOLIO_EMAIL"), "account email")
	c.Flags().StringVar(&password, "password", "", "account password (or PORTFOLIO_PASSWORD, or prompt)")
	return c
}

func SignOutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.Client.Session.SignOut(cmd.Context())
			env.forgetToken()
			return err
		},
	}
}

func WhoAmICmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := env.Client.Session.User()
			if user == nil {
				return fmt.Errorf("not signed in")
			}
			return env.print(user)
		},
	}
}

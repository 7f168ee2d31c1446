package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/portfolio/internal/service"
)

func ContactCmd(env *Env) *cobra.Command {
	var msg service.ContactMessage

	c := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := env.Client.Contact(cmd.Context(), msg)
			return err
		},
	}

	c.Flags().StringVar(&msg.Name, "name", "", "your name")
	c.Flags().StringVar(&msg.Email, "email", "", "your email")
	c.Flags().StringVar(&msg.Subject, "subject", "", "subject")
	c.Flags().StringVar(&msg.Message, "message", "", "message body")
	return c
}

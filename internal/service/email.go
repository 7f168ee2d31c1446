package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Email is one outgoing HTML message.
type Email struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// EmailSender delivers a single email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

type EmailService struct {
	client *resend.Client
	isDev  bool
}

func NewEmailService(apiKey string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client: client,
		isDev:  isDev,
	}
}

func (s *EmailService) Send(ctx context.Context, email Email) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "to", email.To, "subject", email.Subject, "reply_to", email.ReplyTo)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		ReplyTo: email.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return err
	}

	slog.Info("email sent", "to", email.To, "subject", email.Subject, "id", sent.Id)
	return nil
}

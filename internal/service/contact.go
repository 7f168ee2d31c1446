package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var ErrContactFieldsRequired = errors.New("all fields are required")

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactService relays contact form submissions as two emails: a
// notification to the site owner and an acknowledgment to the sender.
type ContactService struct {
	sender     EmailSender
	from       string
	ownerEmail string
	ownerName  string
	now        func() time.Time
}

func NewContactService(sender EmailSender, from, ownerEmail, ownerName string) *ContactService {
	return &ContactService{
		sender:     sender,
		from:       from,
		ownerEmail: ownerEmail,
		ownerName:  ownerName,
		now:        time.Now,
	}
}

// Relay sends both emails. The acknowledgment is only sent after the owner
// notification succeeded. Nothing is retried.
func (s *ContactService) Relay(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return ErrContactFieldsRequired
	}

	data := newContactEmailData(msg, s.ownerName, s.ownerEmail, s.now().UTC())

	subject, body, err := contactOwnerEmailTemplate(data)
	if err != nil {
		return fmt.Errorf("%w: render owner email: %w", ErrRelayFailed, err)
	}

	err = s.sender.Send(ctx, Email{
		From:    s.from,
		To:      s.ownerEmail,
		ReplyTo: msg.Email,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		slog.Error("contact owner email failed", "error", err)
		return fmt.Errorf("%w: owner email: %w", ErrRelayFailed, err)
	}

	subject, body, err = contactAckEmailTemplate(data)
	if err != nil {
		return fmt.Errorf("%w: render acknowledgment: %w", ErrRelayFailed, err)
	}

	err = s.sender.Send(ctx, Email{
		From:    s.from,
		To:      msg.Email,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		slog.Error("contact acknowledgment email failed", "error", err)
		return fmt.Errorf("%w: acknowledgment email: %w", ErrRelayFailed, err)
	}

	slog.Info("contact message relayed", "subject", msg.Subject)
	return nil
}

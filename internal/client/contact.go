package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/validation"
)

type contactReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Contact relays a visitor message through the server. No session is needed.
func (c *Client) Contact(ctx context.Context, msg service.ContactMessage) (string, error) {
	errs := &validation.Errors{}
	for field, value := range map[string]string{
		"name":    msg.Name,
		"email":   msg.Email,
		"subject": msg.Subject,
		"message": msg.Message,
	} {
		if strings.TrimSpace(value) == "" {
			errs.Add(field, "All fields are required")
		}
	}
	if err := errs.Err(); err != nil {
		return "", err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/contact"), bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.contactFailed(&RelayError{Message: err.Error()})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var reply contactReply
	decodeErr := json.NewDecoder(resp.Body).Decode(&reply)

	if resp.StatusCode != http.StatusOK || !reply.Success {
		reason := reply.Error
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return "", c.contactFailed(&RelayError{Status: resp.StatusCode, Message: reason})
	}
	if decodeErr != nil {
		return "", c.contactFailed(&RelayError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response: %v", decodeErr)})
	}

	c.notify(model.Notification{Title: "Success", Description: reply.Message, Variant: model.NotificationSuccess})
	return reply.Message, nil
}

func (c *Client) contactFailed(err *RelayError) error {
	c.notify(model.Notification{Title: "Error", Description: "Failed to send message. Please try again.", Variant: model.NotificationError})
	return err
}

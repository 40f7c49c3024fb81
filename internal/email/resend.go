// Package email sends transactional mail through Resend.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

var ErrNotConfigured = errors.New("email delivery is not configured")

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type ResendSender struct {
	client *resend.Client
}

// NewResendSender returns nil when apiKey is empty.
func NewResendSender(apiKey string) *ResendSender {
	if apiKey == "" {
		return nil
	}
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// Send delivers msg and returns the provider message id.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrNotConfigured
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}

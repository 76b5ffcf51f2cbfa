// Package mailer delivers rendered emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"
)

const defaultFrom = "Barberia <onboarding@resend.dev>"

var ErrNotConfigured = errors.New("mailer: api key not configured")

type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type ResendSender struct {
	client   *resend.Client
	from     string
	testAddr string
	logger   *slog.Logger
}

// NewResendSender builds a sender backed by the Resend API. When testAddr is
// set every message is redirected there.
func NewResendSender(apiKey, from, testAddr string, logger *slog.Logger) (*ResendSender, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	from = strings.TrimSpace(from)
	if from == "" {
		from = defaultFrom
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendSender{
		client:   resend.NewClient(apiKey),
		from:     from,
		testAddr: strings.TrimSpace(testAddr),
		logger:   logger,
	}, nil
}

func (s *ResendSender) Send(ctx context.Context, to, subject, text, html string) error {
	from, dest := s.route(to)
	if dest != to {
		s.logger.Info("email redirected", "original", to, "redirect", dest)
	}
	if html == "" {
		html = "<pre>" + text + "</pre>"
	}

	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{dest},
		Subject: subject,
		Text:    text,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	s.logger.Info("email sent", "to", dest, "resend_id", resp.Id)
	return nil
}

func (s *ResendSender) route(to string) (from, dest string) {
	if s.testAddr == "" {
		return s.from, to
	}
	return fmt.Sprintf("Barberia <%s>", s.testAddr), s.testAddr
}

// LogSender writes emails to the log instead of delivering them. Used when no
// provider is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, text, html string) error {
	s.logger.InfoContext(ctx, "email (log only)", "to", to, "subject", subject, "body", text)
	return nil
}

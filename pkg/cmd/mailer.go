package cmd

import (
	"fmt"
	"log/slog"

	"github.com/commerceops/flowline/pkg/mailer"
)

// NewMailer builds the mailer for send_email steps. Without an SMTP URL the
// noop mailer is used, which only logs.
func NewMailer(logger *slog.Logger, smtpURL, defaultFrom string) (mailer.Mailer, error) {
	if smtpURL == "" {
		return &mailer.NoopMailer{Logger: logger}, nil
	}

	m, err := mailer.NewSMTPMailer(smtpURL, defaultFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP mailer: %w", err)
	}

	return m, nil
}

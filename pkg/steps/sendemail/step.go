// Package sendemail implements the send_email step: a templated notification
// dispatched through the configured mail provider.
package sendemail

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerceops/flowline/pkg/mailer"
	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/template"
)

type Handler struct {
	mailer  mailer.Mailer
	to      string
	subject string
	body    string
	from    string
}

func NewHandler(config map[string]any, m mailer.Mailer) (*Handler, error) {
	to, _ := config["to"].(string)
	if to == "" {
		return nil, errors.New("missing required field 'to'")
	}

	subject, _ := config["subject"].(string)
	if subject == "" {
		return nil, errors.New("missing required field 'subject'")
	}

	body, _ := config["body"].(string)
	if body == "" {
		return nil, errors.New("missing required field 'body'")
	}

	from, _ := config["from"].(string)

	return &Handler{mailer: m, to: to, subject: subject, body: body, from: from}, nil
}

func (h *Handler) Execute(ctx context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	msg := mailer.Message{
		To:      template.Interpolate(h.to, execCtx.Data),
		Subject: template.Interpolate(h.subject, execCtx.Data),
		Body:    template.Interpolate(h.body, execCtx.Data),
		From:    h.from,
	}

	messageID, err := h.mailer.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("email dispatch failed: %w", err)
	}

	return map[string]any{
		"to":        msg.To,
		"subject":   msg.Subject,
		"sent":      true,
		"messageId": messageID,
	}, nil
}

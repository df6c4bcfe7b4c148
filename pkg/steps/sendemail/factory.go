package sendemail

import (
	"github.com/commerceops/flowline/pkg/mailer"
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct {
	mailer mailer.Mailer
}

func NewFactory(m mailer.Mailer) protocol.StepHandlerFactory {
	return &Factory{mailer: m}
}

func (f *Factory) ID() string {
	return "send_email"
}

func (f *Factory) Name() string {
	return "Send Email"
}

func (f *Factory) Description() string {
	return "Dispatches a templated email through the notification provider"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to":              map[string]any{"type": "string"},
			"subject":         map[string]any{"type": "string"},
			"body":            map[string]any{"type": "string"},
			"from":            map[string]any{"type": "string"},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"to", "subject", "body"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config, f.mailer)
}

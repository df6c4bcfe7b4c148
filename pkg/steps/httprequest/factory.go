package httprequest

import (
	"github.com/commerceops/flowline/pkg/protocol"
)

// Factory creates http_request handlers. The optional host allow-list bounds
// where workflow authors can point outbound requests.
type Factory struct {
	allowedHosts []string
}

func NewFactory(allowedHosts []string) protocol.StepHandlerFactory {
	return &Factory{allowedHosts: allowedHosts}
}

func (f *Factory) ID() string {
	return "http_request"
}

func (f *Factory) Name() string {
	return "HTTP Request"
}

func (f *Factory) Description() string {
	return "Performs an outbound HTTP request with templated URL, headers and body"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL. Supports {{path}} templating",
			},
			"method": map[string]any{
				"type":    "string",
				"default": "GET",
				"enum":    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers. Values support templating",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports templating",
			},
			"timeout_ms": map[string]any{
				"type":    "number",
				"default": defaultTimeoutMs,
				"minimum": 1,
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"url"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config, f.allowedHosts)
}

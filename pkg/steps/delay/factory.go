package delay

import (
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.StepHandlerFactory {
	return &Factory{}
}

func (f *Factory) ID() string {
	return "delay"
}

func (f *Factory) Name() string {
	return "Delay"
}

func (f *Factory) Description() string {
	return "Suspends the run for a fixed duration"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration_ms": map[string]any{
				"type":    "number",
				"default": defaultDurationMs,
				"minimum": 1,
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config)
}

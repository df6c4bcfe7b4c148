package transform

import (
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.StepHandlerFactory {
	return &Factory{}
}

func (f *Factory) ID() string {
	return "transform_data"
}

func (f *Factory) Name() string {
	return "Transform Data"
}

func (f *Factory) Description() string {
	return "Applies an ordered list of map/set/calculate/format transformations to the data context"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transformations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []string{"map", "set", "calculate", "format"},
						},
						"source": map[string]any{"type": "string"},
						"target": map[string]any{"type": "string"},
						"value": map[string]any{
							"type":        "string",
							"description": "Template for 'set'; formatter name (uppercase, lowercase, date, number) for 'format'",
						},
						"operation": map[string]any{
							"type":        "string",
							"description": "Arithmetic expression over context fields for 'calculate'",
						},
					},
					"required": []string{"type", "target"},
				},
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"transformations"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config)
}

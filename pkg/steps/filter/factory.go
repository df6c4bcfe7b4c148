package filter

import (
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.StepHandlerFactory {
	return &Factory{}
}

func (f *Factory) ID() string {
	return "filter"
}

func (f *Factory) Name() string {
	return "Filter"
}

func (f *Factory) Description() string {
	return "Fails the step when the predicate does not hold, stopping non-matching data"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"field": map[string]any{"type": "string"},
					"operator": map[string]any{
						"type": "string",
						"enum": []string{
							"equals", "not_equals", "greater_than", "less_than",
							"contains", "not_contains", "exists", "not_exists",
						},
					},
					"value": map[string]any{},
				},
				"required": []string{"field", "operator"},
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"condition"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config)
}

package conditional

import (
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct{}

func NewFactory() protocol.StepHandlerFactory {
	return &Factory{}
}

func (f *Factory) ID() string {
	return "conditional"
}

func (f *Factory) Name() string {
	return "Conditional"
}

func (f *Factory) Description() string {
	return "Evaluates a predicate and returns the configured true or false value"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition":       conditionSchema(),
			"trueValue":       map[string]any{},
			"falseValue":      map[string]any{},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"condition"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config)
}

func conditionSchema() map[string]any {
	return map[string]any{
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
	}
}

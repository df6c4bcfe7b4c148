// Package registry maps step-type tags to their handler factories.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/commerceops/flowline/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownStepType indicates no factory is registered for a step-type tag.
var ErrUnknownStepType = errors.New("unknown step type")

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.StepHandlerFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.StepHandlerFactory),
	}
}

func (r *Registry) Register(factory protocol.StepHandlerFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered step handler", "step_type", factory.ID())
}

// Create builds a handler for the given step type and configuration.
func (r *Registry) Create(stepType string, config map[string]any) (protocol.StepHandler, error) {
	factory, ok := r.factories[stepType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStepType, stepType)
	}

	return factory.Create(config)
}

// ValidateConfig checks a step configuration document against the factory's
// JSON schema. Used when a workflow definition is accepted, before any run.
func (r *Registry) ValidateConfig(stepType string, config map[string]any) error {
	factory, ok := r.factories[stepType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStepType, stepType)
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(factory.Schema()),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %q config: %w", stepType, err)
	}

	if !result.Valid() {
		return fmt.Errorf("invalid %q config: %s", stepType, result.Errors()[0].String())
	}

	return nil
}

// StepTypes returns the registered step-type tags, sorted.
func (r *Registry) StepTypes() []string {
	types := make([]string, 0, len(r.factories))
	for stepType := range r.factories {
		types = append(types, stepType)
	}

	sort.Strings(types)

	return types
}

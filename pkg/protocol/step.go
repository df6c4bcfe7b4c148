// Package protocol defines the contracts between the workflow runner and
// step handler implementations.
package protocol

import (
	"context"

	"github.com/commerceops/flowline/pkg/models"
)

// StepHandler executes one configured step against the run's data context.
// The returned document (possibly empty) is shallow-merged into the context
// by the runner; a returned error marks the step as failed.
type StepHandler interface {
	Execute(ctx context.Context, execCtx *models.ExecutionContext) (map[string]any, error)
}

// StepHandlerFactory builds handlers for one step type. New step types are
// added by registering a factory, not by editing a dispatcher.
type StepHandlerFactory interface {
	// ID returns the step-type tag the factory serves.
	ID() string

	// Name returns a human-readable step-type name.
	Name() string

	// Description explains what the step does.
	Description() string

	// Schema returns the JSON schema for the step's configuration document.
	Schema() map[string]any

	// Create builds a handler from a step configuration document.
	Create(config map[string]any) (StepHandler, error)
}

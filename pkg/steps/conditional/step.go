// Package conditional implements the conditional step: a branch value picked
// by a single predicate. A false condition is still a successful step — this
// step can never abort the run by itself.
package conditional

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerceops/flowline/pkg/models"
)

type Handler struct {
	condition  models.Condition
	trueValue  any
	falseValue any
}

func NewHandler(config map[string]any) (*Handler, error) {
	conditionDoc, ok := config["condition"].(map[string]any)
	if !ok {
		return nil, errors.New("missing required field 'condition'")
	}

	condition, err := models.ParseCondition(conditionDoc)
	if err != nil {
		return nil, err
	}

	return &Handler{
		condition:  condition,
		trueValue:  config["trueValue"],
		falseValue: config["falseValue"],
	}, nil
}

func (h *Handler) Execute(_ context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	result, err := h.condition.Evaluate(execCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("condition evaluation failed: %w", err)
	}

	value := h.falseValue
	if result {
		value = h.trueValue
	}

	return map[string]any{
		"conditionResult": result,
		"value":           value,
	}, nil
}

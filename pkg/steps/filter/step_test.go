package filter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execContext(data map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{Data: data, Logger: slog.New(slog.DiscardHandler)}
}

func TestNewHandler_RequiresCondition(t *testing.T) {
	_, err := NewHandler(map[string]any{})
	require.Error(t, err)
}

func TestHandler_Execute_Pass(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": map[string]any{
			"field":    "order.status",
			"operator": "equals",
			"value":    "paid",
		},
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"status": "paid"},
	}))
	require.NoError(t, err)
	assert.Empty(t, output)
}

// Unlike conditional, a false filter condition is a step failure.
func TestHandler_Execute_FailsOnFalseCondition(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": map[string]any{
			"field":    "order.status",
			"operator": "equals",
			"value":    "paid",
		},
	})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"status": "pending"},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not pass filter")
}

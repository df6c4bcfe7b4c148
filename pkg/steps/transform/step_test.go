package transform

import (
	"context"
	"log/slog"
	"testing"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execContext(data map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		Data:        data,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

func TestNewHandler_Validation(t *testing.T) {
	_, err := NewHandler(map[string]any{})
	require.Error(t, err)

	_, err = NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "reverse", "target": "out"},
		},
	})
	require.Error(t, err)

	_, err = NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "set", "value": "x"},
		},
	})
	require.Error(t, err)
}

func TestHandler_Execute_Map(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "map", "source": "order.customer.email", "target": "recipient"},
		},
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{
			"customer": map[string]any{"email": "jo@example.com"},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", output["recipient"])
}

func TestHandler_Execute_SetResolvesTemplates(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "set", "target": "greeting", "value": "hello {{name}}"},
			map[string]any{"type": "set", "target": "copy", "value": "{{amount}}"},
		},
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"name":   "alice",
		"amount": 12.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, "hello alice", output["greeting"])
	assert.InEpsilon(t, 12.5, output["copy"], 0.0001)
}

func TestHandler_Execute_Calculate(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "calculate", "target": "total", "operation": "subtotal * (1 + tax_rate)"},
		},
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"subtotal": 100.0,
		"tax_rate": 0.25,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 125.0, output["total"], 0.0001)
}

func TestHandler_Execute_Format(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		source   string
		data     map[string]any
		expected any
	}{
		{
			name:     "uppercase",
			format:   "uppercase",
			source:   "status",
			data:     map[string]any{"status": "shipped"},
			expected: "SHIPPED",
		},
		{
			name:     "lowercase",
			format:   "lowercase",
			source:   "code",
			data:     map[string]any{"code": "VIP-10"},
			expected: "vip-10",
		},
		{
			name:     "date from RFC3339",
			format:   "date",
			source:   "placed_at",
			data:     map[string]any{"placed_at": "2026-03-15T10:30:00Z"},
			expected: "2026-03-15",
		},
		{
			name:     "number",
			format:   "number",
			source:   "total",
			data:     map[string]any{"total": 12.5},
			expected: "12.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(map[string]any{
				"transformations": []any{
					map[string]any{"type": "format", "source": tt.source, "target": "out", "value": tt.format},
				},
			})
			require.NoError(t, err)

			output, err := handler.Execute(context.Background(), execContext(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output["out"])
		})
	}
}

func TestHandler_Execute_LaterTransformationsSeeEarlierTargets(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "calculate", "target": "net", "operation": "gross - fees"},
			map[string]any{"type": "calculate", "target": "net_cents", "operation": "net * 100"},
		},
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"gross": 50.0,
		"fees":  7.5,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 42.5, output["net"], 0.0001)
	assert.InDelta(t, 4250.0, output["net_cents"], 0.0001)
}

func TestHandler_Execute_DoesNotMutateContext(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "set", "target": "added", "value": "x"},
		},
	})
	require.NoError(t, err)

	data := map[string]any{"existing": "value"}

	_, err = handler.Execute(context.Background(), execContext(data))
	require.NoError(t, err)

	_, present := data["added"]
	assert.False(t, present)
}

func TestHandler_Execute_FailsOnMissingSource(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"transformations": []any{
			map[string]any{"type": "map", "source": "missing", "target": "out"},
		},
	})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{}))
	require.Error(t, err)
}

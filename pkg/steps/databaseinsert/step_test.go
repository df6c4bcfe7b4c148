package databaseinsert

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/commerceops/flowline/pkg/mocks"
	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func execContext(data map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{Data: data, Logger: slog.New(slog.DiscardHandler)}
}

func TestNewHandler_Validation(t *testing.T) {
	store := new(mocks.MockRowStore)

	_, err := NewHandler(map[string]any{"data": map[string]any{}}, store)
	require.Error(t, err)

	_, err = NewHandler(map[string]any{"table": "order_notes"}, store)
	require.Error(t, err)
}

func TestHandler_Execute(t *testing.T) {
	store := new(mocks.MockRowStore)
	store.On("InsertRow", mock.Anything, "order_notes", map[string]any{
		"order_id": "ord-3",
		"note":     "flagged for review",
	}).Return(map[string]any{
		"id":       int64(1),
		"order_id": "ord-3",
		"note":     "flagged for review",
	}, nil)

	handler, err := NewHandler(map[string]any{
		"table": "order_notes",
		"data": map[string]any{
			"order_id": "{{order.id}}",
			"note":     "flagged for review",
		},
	}, store)
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"id": "ord-3"},
	}))
	require.NoError(t, err)

	inserted := output["inserted"].(map[string]any)
	assert.Equal(t, "ord-3", inserted["order_id"])
	store.AssertExpectations(t)
}

func TestHandler_Execute_StoreError(t *testing.T) {
	store := new(mocks.MockRowStore)
	store.On("InsertRow", mock.Anything, "forbidden", mock.Anything).
		Return(nil, errors.New("table not in allow-list"))

	handler, err := NewHandler(map[string]any{
		"table": "forbidden",
		"data":  map[string]any{"k": "v"},
	}, store)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{}))
	require.Error(t, err)
}

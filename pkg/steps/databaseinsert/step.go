// Package databaseinsert implements the database_insert step: one templated
// row inserted into an allow-listed table of the persistent store.
package databaseinsert

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/template"
)

type Handler struct {
	store persistence.RowStore
	table string
	data  map[string]any
}

func NewHandler(config map[string]any, store persistence.RowStore) (*Handler, error) {
	table, _ := config["table"].(string)
	if table == "" {
		return nil, errors.New("missing required field 'table'")
	}

	data, ok := config["data"].(map[string]any)
	if !ok {
		return nil, errors.New("missing required field 'data'")
	}

	return &Handler{store: store, table: table, data: data}, nil
}

func (h *Handler) Execute(ctx context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	row := template.InterpolateDocument(h.data, execCtx.Data)

	inserted, err := h.store.InsertRow(ctx, h.table, row)
	if err != nil {
		return nil, fmt.Errorf("insert into %q failed: %w", h.table, err)
	}

	return map[string]any{"inserted": inserted}, nil
}

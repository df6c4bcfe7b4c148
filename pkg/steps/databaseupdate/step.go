// Package databaseupdate implements the database_update step: an equality-
// filtered update of allow-listed tables in the persistent store.
package databaseupdate

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
	where map[string]any
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

	where, ok := config["where"].(map[string]any)
	if !ok {
		return nil, errors.New("missing required field 'where'")
	}

	return &Handler{store: store, table: table, data: data, where: where}, nil
}

func (h *Handler) Execute(ctx context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	data := template.InterpolateDocument(h.data, execCtx.Data)
	where := template.InterpolateDocument(h.where, execCtx.Data)

	updated, err := h.store.UpdateRows(ctx, h.table, data, where)
	if err != nil {
		return nil, fmt.Errorf("update of %q failed: %w", h.table, err)
	}

	return map[string]any{"updated": updated}, nil
}

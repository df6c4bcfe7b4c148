package databaseinsert

import (
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/protocol"
)

type Factory struct {
	store persistence.RowStore
}

func NewFactory(store persistence.RowStore) protocol.StepHandlerFactory {
	return &Factory{store: store}
}

func (f *Factory) ID() string {
	return "database_insert"
}

func (f *Factory) Name() string {
	return "Database Insert"
}

func (f *Factory) Description() string {
	return "Inserts one templated row into a table of the persistent store"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table": map[string]any{"type": "string"},
			"data": map[string]any{
				"type":        "object",
				"description": "Row document. String values support {{path}} templating",
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"table", "data"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config, f.store)
}

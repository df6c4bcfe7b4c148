package databaseupdate

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
	return "database_update"
}

func (f *Factory) Name() string {
	return "Database Update"
}

func (f *Factory) Description() string {
	return "Updates rows matching equality filters with templated values"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"table": map[string]any{"type": "string"},
			"data": map[string]any{
				"type":        "object",
				"description": "Column values to set. Strings support templating",
			},
			"where": map[string]any{
				"type":        "object",
				"description": "Equality filters. Strings support templating",
			},
			"continueOnError": map[string]any{"type": "boolean"},
		},
		"required": []string{"table", "data", "where"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewHandler(config, f.store)
}

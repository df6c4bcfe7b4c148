package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/commerceops/flowline/pkg/persistence"
)

// RowStore implements generic row writes on top of one JSON file per table.
// Rows get an auto-incremented "id" column to mirror the SQL implementation.
type RowStore struct {
	root          string
	logger        *slog.Logger
	allowedTables map[string]bool
	mu            sync.Mutex
}

// NewRowStore creates a row store restricted to the given tables.
func NewRowStore(root string, logger *slog.Logger, allowedTables []string) *RowStore {
	allowed := make(map[string]bool, len(allowedTables))
	for _, table := range allowedTables {
		allowed[table] = true
	}

	return &RowStore{root: root, logger: logger, allowedTables: allowed}
}

func (s *RowStore) InsertRow(_ context.Context, table string, data map[string]any) (map[string]any, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load(table)
	if err != nil {
		return nil, err
	}

	row := make(map[string]any, len(data)+1)
	for k, v := range data {
		row[k] = v
	}

	row["id"] = int64(len(rows) + 1)
	rows = append(rows, row)

	if err := s.store(table, rows); err != nil {
		return nil, err
	}

	s.logger.Debug("Inserted row", "table", table, "id", row["id"])

	return row, nil
}

func (s *RowStore) UpdateRows(_ context.Context, table string, data map[string]any, where map[string]any) ([]map[string]any, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	if len(where) == 0 {
		return nil, fmt.Errorf("update %s: empty where clause", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load(table)
	if err != nil {
		return nil, err
	}

	updated := make([]map[string]any, 0)

	for _, row := range rows {
		if !matches(row, where) {
			continue
		}

		for k, v := range data {
			row[k] = v
		}

		updated = append(updated, row)
	}

	if err := s.store(table, rows); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *RowStore) checkTable(table string) error {
	if !s.allowedTables[table] {
		return fmt.Errorf("%w: %s", persistence.ErrTableNotAllowed, table)
	}

	return nil
}

// matches compares with Sprintf so JSON round-tripped numbers still match
// their original values.
func matches(row, where map[string]any) bool {
	for k, v := range where {
		actual, ok := row[k]
		if !ok {
			return false
		}

		if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", v) {
			return false
		}
	}

	return true
}

func (s *RowStore) load(table string) ([]map[string]any, error) {
	data, err := os.ReadFile(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return make([]map[string]any, 0), nil
		}

		return nil, fmt.Errorf("failed to read table file: %w", err)
	}

	var rows []map[string]any

	err = json.Unmarshal(data, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal table %s: %w", table, err)
	}

	return rows, nil
}

func (s *RowStore) store(table string, rows []map[string]any) error {
	err := os.MkdirAll(filepath.Join(s.root, "tables"), dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create tables directory: %w", err)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", table, err)
	}

	err = os.WriteFile(s.path(table), data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write table file: %w", err)
	}

	return nil
}

func (s *RowStore) path(table string) string {
	return filepath.Join(s.root, "tables", table+".json")
}

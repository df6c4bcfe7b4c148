package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/lib/pq"
)

// RowStore implements generic row writes for the database_insert and
// database_update steps. Table names come from user-authored step configs,
// so writes are restricted to an allow-listed set and identifiers are
// always quoted.
type RowStore struct {
	db            *sql.DB
	logger        *slog.Logger
	allowedTables map[string]bool
}

// NewRowStore creates a row store restricted to the given tables.
func NewRowStore(db *sql.DB, logger *slog.Logger, allowedTables []string) *RowStore {
	allowed := make(map[string]bool, len(allowedTables))
	for _, table := range allowedTables {
		allowed[table] = true
	}

	return &RowStore{db: db, logger: logger, allowedTables: allowed}
}

func (s *RowStore) InsertRow(ctx context.Context, table string, data map[string]any) (map[string]any, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("insert into %s: no columns given", table)
	}

	columns := sortedKeys(data)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))

	for i, column := range columns {
		quoted[i] = pq.QuoteIdentifier(column)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = driverValue(data[column])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	inserted, err := s.collectRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	if len(inserted) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}

	return inserted[0], nil
}

func (s *RowStore) UpdateRows(ctx context.Context, table string, data map[string]any, where map[string]any) ([]map[string]any, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("update %s: no columns given", table)
	}

	// Updates without a filter would rewrite the whole table.
	if len(where) == 0 {
		return nil, fmt.Errorf("update %s: empty where clause", table)
	}

	args := make([]any, 0, len(data)+len(where))
	assignments := make([]string, 0, len(data))

	for _, column := range sortedKeys(data) {
		args = append(args, driverValue(data[column]))
		assignments = append(assignments, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(column), len(args)))
	}

	conditions := make([]string, 0, len(where))

	for _, column := range sortedKeys(where) {
		args = append(args, driverValue(where[column]))
		conditions = append(conditions, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(column), len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING *",
		pq.QuoteIdentifier(table),
		strings.Join(assignments, ", "),
		strings.Join(conditions, " AND "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", table, err)
	}

	return s.collectRows(ctx, rows)
}

func (s *RowStore) checkTable(table string) error {
	if !s.allowedTables[table] {
		return fmt.Errorf("%w: %s", persistence.ErrTableNotAllowed, table)
	}

	return nil
}

func (s *RowStore) collectRows(ctx context.Context, rows *sql.Rows) ([]map[string]any, error) {
	defer func() {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// driverValue flattens document values that database/sql cannot bind directly.
func driverValue(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return fmt.Sprintf("%v", v)
	default:
		return v
	}
}

// normalizeValue converts driver byte slices to strings so step outputs stay
// JSON friendly.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return v
}

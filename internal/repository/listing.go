package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/pkg/pagination"
)

// listArgs assembles the WHERE/ORDER/LIMIT portion shared by every list
// query: positional arg numbering, case-insensitive search across columns,
// status and date-range filters, allow-listed sort columns and clamped
// paging. Each repository feeds it the entity-specific pieces.
type listArgs struct {
	conditions []string
	args       []interface{}
}

func (l *listArgs) equals(column string, value interface{}) {
	l.conditions = append(l.conditions, fmt.Sprintf("%s = $%d", column, len(l.args)+1))
	l.args = append(l.args, value)
}

func (l *listArgs) search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	placeholder := fmt.Sprintf("$%d", len(l.args)+1)
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE %s", column, placeholder)
	}
	l.conditions = append(l.conditions, "("+strings.Join(parts, " OR ")+")")
	l.args = append(l.args, "%"+strings.ToLower(term)+"%")
}

func (l *listArgs) status(column string, status models.Status) {
	if status == "" {
		return
	}
	l.equals(column, status)
}

func (l *listArgs) dateRange(column string, from, to *time.Time) {
	if from != nil {
		l.conditions = append(l.conditions, fmt.Sprintf("%s >= $%d", column, len(l.args)+1))
		l.args = append(l.args, *from)
	}
	if to != nil {
		l.conditions = append(l.conditions, fmt.Sprintf("%s <= $%d", column, len(l.args)+1))
		l.args = append(l.args, *to)
	}
}

// clause renders the condition list as an " AND ..." suffix for a query that
// already starts with WHERE 1=1.
func (l *listArgs) clause() string {
	if len(l.conditions) == 0 {
		return ""
	}
	return " AND " + strings.Join(l.conditions, " AND ")
}

// orderAndLimit renders the trailing ORDER BY/LIMIT/OFFSET. allowedSorts
// maps client-facing sort names onto SQL columns; anything outside the map
// falls back to the default. The direction defaults to DESC and paging is
// clamped to the accepted page sizes.
func orderAndLimit(filter models.ListFilter, allowedSorts map[string]string, defaultSort string) string {
	sortBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		sortBy = defaultSort
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if !pagination.ValidPageSize(limit) {
		limit = pagination.DefaultPageSize
	}
	offset := (page - 1) * limit

	return fmt.Sprintf(" ORDER BY %s %s LIMIT %d OFFSET %d", sortBy, order, limit, offset)
}

// sequenceDirection names the two adjacent-swap moves.
type sequenceDirection string

const (
	sequenceUp   sequenceDirection = "up"
	sequenceDown sequenceDirection = "down"
)

// swapAdjacentSequence exchanges the sequence value of the identified row
// with its neighbour in the given direction, inside one transaction. Rows at
// the boundary are left untouched and the call reports false.
func swapAdjacentSequence(ctx context.Context, db *sqlx.DB, table, id string, direction sequenceDirection) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin sequence swap: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current struct {
		ID       string `db:"id"`
		Sequence int    `db:"sequence"`
	}
	if err := tx.GetContext(ctx, &current, fmt.Sprintf("SELECT id, sequence FROM %s WHERE id = $1 FOR UPDATE", table), id); err != nil {
		return false, err
	}

	neighborQuery := fmt.Sprintf("SELECT id, sequence FROM %s WHERE sequence < $1 ORDER BY sequence DESC LIMIT 1", table)
	if direction == sequenceDown {
		neighborQuery = fmt.Sprintf("SELECT id, sequence FROM %s WHERE sequence > $1 ORDER BY sequence ASC LIMIT 1", table)
	}

	var neighbor struct {
		ID       string `db:"id"`
		Sequence int    `db:"sequence"`
	}
	if err := tx.GetContext(ctx, &neighbor, neighborQuery, current.Sequence); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("find sequence neighbor: %w", err)
	}

	update := fmt.Sprintf("UPDATE %s SET sequence = $2, updated_at = $3 WHERE id = $1", table)
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, update, current.ID, neighbor.Sequence, now); err != nil {
		return false, fmt.Errorf("swap sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, update, neighbor.ID, current.Sequence, now); err != nil {
		return false, fmt.Errorf("swap sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit sequence swap: %w", err)
	}
	return true, nil
}

// nextSequence returns max(sequence)+1 for the table, used when creating
// sequence-ordered records.
func nextSequence(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	var max sql.NullInt64
	if err := db.GetContext(ctx, &max, fmt.Sprintf("SELECT MAX(sequence) FROM %s", table)); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return int(max.Int64) + 1, nil
}

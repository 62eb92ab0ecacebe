package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"juntacomunal/internal/common"
	"juntacomunal/pkg/database"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a tenant-qualified lookup, update or delete
// matches no row. Updates of voidable rows skip voided ones, so a row read
// earlier in the same transaction that is voided meanwhile also yields it.
var ErrNotFound = errors.New("record not found")

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// filterBuilder accumulates WHERE conditions and their arguments. Each
// condition uses ? for its (single) argument, which may appear several times.
type filterBuilder struct {
	conds []string
	args  []any
}

func newFilter(cond string, arg any) *filterBuilder {
	f := &filterBuilder{}
	f.and(cond, arg)
	return f
}

func (f *filterBuilder) and(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f *filterBuilder) andRaw(cond string) {
	f.conds = append(f.conds, cond)
}

func (f *filterBuilder) eqString(column, value string) {
	if value != "" {
		f.and(column+" = ?", value)
	}
}

func (f *filterBuilder) eqInt64(column string, value *int64) {
	if value != nil {
		f.and(column+" = ?", *value)
	}
}

func (f *filterBuilder) eqBool(column string, value *bool) {
	if value != nil {
		f.and(column+" = ?", *value)
	}
}

// dateRange bounds column inclusively on both ends, compared as a date.
func (f *filterBuilder) dateRange(column string, from, to *time.Time) {
	if from != nil {
		f.and(column+"::date >= ?::date", *from)
	}
	if to != nil {
		f.and(column+"::date <= ?::date", *to)
	}
}

// search matches value as a case-insensitive substring of any column.
func (f *filterBuilder) search(value string, columns ...string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("COALESCE(%s, '') ILIKE ?", c)
	}
	f.and("("+strings.Join(parts, " OR ")+")", common.ContainsPattern(value))
}

func (f *filterBuilder) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// listPage runs selectSQL with the filter and applies LIMIT/OFFSET when page
// is set. Total comes from a COUNT when the page asks for one, otherwise it is
// the number of rows returned.
func listPage[T any](
	ctx context.Context,
	q database.DBTX,
	selectSQL, fromSQL string,
	f *filterBuilder,
	orderBy string,
	page common.PageRequest,
	scan func(rowScanner) (*T, error),
) ([]T, int64, error) {
	query := selectSQL + " " + fromSQL + f.where() + " ORDER BY " + orderBy
	args := append([]any(nil), f.args...)

	var total int64
	if page.Counted() {
		countQuery := "SELECT COUNT(*) " + fromSQL + f.where()
		if err := q.QueryRow(ctx, countQuery, f.args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count: %w", err)
		}
	}
	if page.Paginated() {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, page.Limit, page.Offset())
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if !page.Counted() {
		total = int64(len(items))
	}
	return items, total, nil
}

// exists reports whether query returns a row.
func exists(ctx context.Context, q database.DBTX, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func affectedOne(tagRows int64) error {
	if tagRows == 0 {
		return ErrNotFound
	}
	return nil
}

// voidRow marks one non-voided row as anulado and returns it through scan.
// A row that is missing or already voided yields ErrNotFound.
func voidRow[T any](
	ctx context.Context,
	q database.DBTX,
	table, idColumn, columns string,
	scan func(rowScanner) (*T, error),
	tenantID, id, userID int64,
	at time.Time,
	motivo string,
) (*T, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET anulado = true, anulado_at = $3, anulado_by_user = $4, motivo_anulacion = $5
		WHERE id_tenant = $1 AND %s = $2 AND anulado = false
		RETURNING %s`, table, idColumn, columns)
	return scan(q.QueryRow(ctx, query, tenantID, id, at, userID, motivo))
}

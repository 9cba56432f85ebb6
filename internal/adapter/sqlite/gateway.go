package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/botecoflow/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time check: Gateway implements domain.Gateway.
var _ domain.Gateway = (*Gateway)(nil)

// tableSpec whitelists the columns a caller may write or filter on.
// Only whitelisted names are ever interpolated into SQL.
type tableSpec struct {
	columns      []string
	conflictKeys []string
	jsonColumns  []string
}

var tables = map[domain.Table]tableSpec{
	domain.TableUsers: {
		columns: []string{
			"id", "email", "username", "tax_number", "first_name", "last_name",
			"birth_date", "country", "postal_code", "house_number", "is_owner",
		},
		conflictKeys: []string{"email"},
	},
	domain.TableBoteco: {
		columns: []string{
			"id", "public_name", "username", "service_category", "vibe_tags",
			"establishment_tax_number", "country", "postal_code", "owner_tax_number",
			"created_by_email", "created_by_user_id",
		},
		conflictKeys: []string{"username"},
		jsonColumns:  []string{"vibe_tags"},
	},
	domain.TableUserBoteco: {
		columns: []string{"id", "user_id", "boteco_id", "assigned_role", "plan"},
	},
	domain.TableCredentials: {
		columns:      []string{"id", "email", "password_hash"},
		conflictKeys: []string{"email"},
	},
}

// DefaultCallTimeout bounds every gateway call unless overridden.
const DefaultCallTimeout = 15 * time.Second

// Gateway implements domain.Gateway using SQLite.
type Gateway struct {
	db          *sql.DB
	callTimeout time.Duration
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCallTimeout sets the per-call timeout. Expiry fails the call.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.callTimeout = d
		}
	}
}

// New opens a SQLite database, runs migrations, and returns a ready gateway.
func New(dataSourceName string, opts ...Option) (*Gateway, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared by every call.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db, opts...)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready gateway.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB, opts ...Option) (*Gateway, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	g := &Gateway{db: db, callTimeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close closes the underlying database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Insert stores record and returns the stored row. An id is generated when absent.
func (g *Gateway) Insert(ctx context.Context, table domain.Table, record domain.Row) (domain.Row, error) {
	const op = "insert"
	spec, cols, args, err := g.prepareWrite(table, record)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	return g.queryOne(ctx, op, table, spec, query, args)
}

// Upsert inserts record or, when conflictKey matches an existing row, updates
// that row in place. The existing id is kept.
func (g *Gateway) Upsert(ctx context.Context, table domain.Table, record domain.Row, conflictKey string) (domain.Row, error) {
	const op = "upsert"
	spec, cols, args, err := g.prepareWrite(table, record)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}
	if !slices.Contains(spec.conflictKeys, conflictKey) {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: fmt.Errorf("%q is not a conflict key", conflictKey)}
	}
	if !slices.Contains(cols, conflictKey) {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: fmt.Errorf("record has no %q", conflictKey)}
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "id" {
			continue
		}
		sets = append(sets, c+" = excluded."+c)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING *`,
		table, strings.Join(cols, ", "), placeholders(len(cols)), conflictKey, strings.Join(sets, ", "))

	return g.queryOne(ctx, op, table, spec, query, args)
}

// DeleteByID removes the row with the given id. Deleting a missing row is not an error.
func (g *Gateway) DeleteByID(ctx context.Context, table domain.Table, id string) error {
	const op = "delete"
	if _, ok := tables[table]; !ok {
		return &domain.DataAccessError{Op: op, Table: table, Err: errUnknownTable}
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if _, err := g.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return &domain.DataAccessError{Op: op, Table: table, Err: err}
	}
	return nil
}

// Select returns up to limit rows matching every filter. A limit of zero means no limit.
func (g *Gateway) Select(ctx context.Context, table domain.Table, filters []domain.Filter, limit int) ([]domain.Row, error) {
	const op = "select"
	spec, ok := tables[table]
	if !ok {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: errUnknownTable}
	}

	where, args, err := whereClause(spec, filters)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}

	query := fmt.Sprintf(`SELECT * FROM %s%s ORDER BY created_at`, table, where)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}
	defer rows.Close()

	out, err := scanRows(rows, spec)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}
	return out, nil
}

// Count returns how many rows match every filter.
func (g *Gateway) Count(ctx context.Context, table domain.Table, filters []domain.Filter) (int, error) {
	const op = "count"
	spec, ok := tables[table]
	if !ok {
		return 0, &domain.DataAccessError{Op: op, Table: table, Err: errUnknownTable}
	}

	where, args, err := whereClause(spec, filters)
	if err != nil {
		return 0, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	var n int
	if err := g.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table, where), args...).Scan(&n); err != nil {
		return 0, &domain.DataAccessError{Op: op, Table: table, Err: err}
	}
	return n, nil
}

var errUnknownTable = errors.New("unknown table")

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.callTimeout)
}

// prepareWrite checks record against the table spec and returns sorted
// column names with their encoded values.
func (g *Gateway) prepareWrite(table domain.Table, record domain.Row) (tableSpec, []string, []any, error) {
	spec, ok := tables[table]
	if !ok {
		return tableSpec{}, nil, nil, errUnknownTable
	}

	if record.ID() == "" {
		record = cloneRow(record)
		record["id"] = uuid.NewString()
	}

	cols := make([]string, 0, len(record))
	for c := range record {
		if !slices.Contains(spec.columns, c) {
			return tableSpec{}, nil, nil, fmt.Errorf("unknown column %q", c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		v, err := encodeValue(spec, c, record[c])
		if err != nil {
			return tableSpec{}, nil, nil, err
		}
		args[i] = v
	}
	return spec, cols, args, nil
}

// queryOne runs a RETURNING statement and extracts its single row.
// An empty result is an error, not an empty success.
func (g *Gateway) queryOne(ctx context.Context, op string, table domain.Table, spec tableSpec, query string, args []any) (domain.Row, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: classify(err)}
	}
	defer rows.Close()

	out, err := scanRows(rows, spec)
	if err != nil {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: classify(err)}
	}
	if len(out) == 0 {
		return nil, &domain.DataAccessError{Op: op, Table: table, Err: domain.ErrNotFound}
	}
	return out[0], nil
}

func whereClause(spec tableSpec, filters []domain.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if !slices.Contains(spec.columns, f.Column) {
			return "", nil, fmt.Errorf("unknown filter column %q", f.Column)
		}
		conds = append(conds, f.Column+" = ?")
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func scanRows(rows *sql.Rows, spec tableSpec) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out []domain.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(domain.Row, len(cols))
		for i, c := range cols {
			v, err := decodeValue(spec, c, values[i])
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func encodeValue(spec tableSpec, column string, v any) (any, error) {
	if !slices.Contains(spec.jsonColumns, column) {
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", column, err)
	}
	return string(b), nil
}

func decodeValue(spec tableSpec, column string, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if !slices.Contains(spec.jsonColumns, column) {
		return v, nil
	}
	s, _ := v.(string)
	if s == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	return out, nil
}

func cloneRow(r domain.Row) domain.Row {
	out := make(domain.Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// classify marks UNIQUE constraint violations with domain.ErrConflict.
func classify(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

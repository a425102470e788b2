// Package sqlite implements store.Store on SQLite (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is RFC3339 with a fixed nine-digit fraction, so stored
// timestamps sort lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// psql builds statements with ? placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Store provides SQLite-backed persistence.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open creates or opens the database at path and applies the schema.
// Pragmas are passed through the DSN so that every pooled connection gets them,
// and write transactions start with BEGIN IMMEDIATE.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")
	dsn := "file:" + path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SetClock overrides the store's notion of now. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// count runs a SELECT COUNT built by squirrel.
func count(ctx context.Context, q queryer, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// formatTime formats a time.Time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// parseNullableTime parses an optional time string.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullTimeString returns a sql.NullString from a *time.Time.
func nullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// nullID maps a nil or zero id to NULL.
func nullID(id *int64) sql.NullInt64 {
	if id == nil || *id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// contentTable returns the table holding items of ct.
func contentTable(ct domain.ContentType) string {
	switch ct {
	case domain.ContentBlog:
		return "blogs"
	case domain.ContentProduct:
		return "products"
	case domain.ContentVacancy:
		return "vacancies"
	}
	panic(fmt.Sprintf("sqlite: unknown content type %q", ct))
}

// contentKeyColumn returns the association column that references ct.
func contentKeyColumn(ct domain.ContentType) string {
	switch ct {
	case domain.ContentBlog:
		return "blog_id"
	case domain.ContentProduct:
		return "product_id"
	case domain.ContentVacancy:
		return "vacancy_id"
	}
	panic(fmt.Sprintf("sqlite: unknown content type %q", ct))
}

// SlugExists reports whether another item of ct already uses slug.
func (s *Store) SlugExists(ctx context.Context, ct domain.ContentType, slug string, excludeID int64) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+contentTable(ct)+` WHERE slug = ? AND id != ?)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists == 1, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresStore keeps every collection in a single JSONB documents table
// (see migrations/001_documents.sql).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connected pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	const query = `
        SELECT id, data, created_at, updated_at
        FROM documents WHERE collection=$1 AND id=$2`
	doc, err := scanDocument(s.pool.QueryRow(ctx, query, collection, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return doc, nil
}

func (s *PostgresStore) Create(ctx context.Context, collection string, data Document) (Document, error) {
	const query = `
        INSERT INTO documents (collection, id, data, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        RETURNING id, data, created_at, updated_at`
	now := time.Now().UTC()
	doc, err := scanDocument(s.pool.QueryRow(ctx, query,
		collection,
		uuid.NewString(),
		map[string]any(stripReserved(data)),
		now,
	))
	if err != nil {
		return nil, mapPgError(err)
	}
	return doc, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, data Document) (Document, error) {
	const query = `
        UPDATE documents SET data = data || $3, updated_at = $4
        WHERE collection=$1 AND id=$2
        RETURNING id, data, created_at, updated_at`
	doc, err := scanDocument(s.pool.QueryRow(ctx, query,
		collection,
		id,
		map[string]any(stripReserved(data)),
		time.Now().UTC(),
	))
	if err != nil {
		return nil, mapPgError(err)
	}
	return doc, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	cmd, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("SELECT id, data, created_at, updated_at FROM documents WHERE collection=$1")
	args := []any{collection}
	for _, f := range filters {
		clause, clauseArgs := pgCondition(f, len(args)+1)
		sb.WriteString(" AND ")
		sb.WriteString(clause)
		args = append(args, clauseArgs...)
	}
	sb.WriteString(" ORDER BY created_at ASC")
	return s.queryDocuments(ctx, sb.String(), args...)
}

func (s *PostgresStore) List(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	var sb strings.Builder
	sb.WriteString("SELECT id, data, created_at, updated_at FROM documents WHERE collection=$1")
	args := []any{collection}

	switch opts.OrderBy {
	case "", FieldCreatedAt:
		sb.WriteString(" ORDER BY created_at")
	case FieldUpdatedAt:
		sb.WriteString(" ORDER BY updated_at")
	default:
		args = append(args, opts.OrderBy)
		sb.WriteString(fmt.Sprintf(" ORDER BY data->>$%d", len(args)))
	}
	if opts.Descending {
		sb.WriteString(" DESC")
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	return s.queryDocuments(ctx, sb.String(), args...)
}

func (s *PostgresStore) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// pgCondition renders one filter starting at placeholder n.
func pgCondition(f Filter, n int) (string, []any) {
	switch f.Field {
	case FieldID:
		if f.Op == OpIn {
			items, _ := toSlice(f.Value)
			return fmt.Sprintf("id = ANY($%d)", n), []any{stringSlice(items)}
		}
		return fmt.Sprintf("id %s $%d", sqlOperator(f.Op), n), []any{f.Value}
	case FieldCreatedAt:
		return fmt.Sprintf("created_at %s $%d", sqlOperator(f.Op), n), []any{f.Value}
	case FieldUpdatedAt:
		return fmt.Sprintf("updated_at %s $%d", sqlOperator(f.Op), n), []any{f.Value}
	}

	if f.Op == OpIn {
		items, _ := toSlice(f.Value)
		return fmt.Sprintf("data->>$%d = ANY($%d)", n, n+1), []any{f.Field, stringSlice(items)}
	}
	if f.Value == nil {
		if f.Op == OpNotEqual {
			return fmt.Sprintf("data->>$%d IS NOT NULL", n), []any{f.Field}
		}
		return fmt.Sprintf("data->>$%d IS NULL", n), []any{f.Field}
	}

	lhs := fmt.Sprintf("data->>$%d", n)
	switch f.Value.(type) {
	case int, int32, int64, float32, float64:
		lhs = fmt.Sprintf("(data->>$%d)::double precision", n)
	case bool:
		lhs = fmt.Sprintf("(data->>$%d)::boolean", n)
	case time.Time:
		lhs = fmt.Sprintf("(data->>$%d)::timestamptz", n)
	}
	return fmt.Sprintf("%s %s $%d", lhs, sqlOperator(f.Op), n+1), []any{f.Field, f.Value}
}

func sqlOperator(op Operator) string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	}
	return string(op)
}

func stringSlice(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		id        string
		data      map[string]any
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	doc := make(Document, len(data)+3)
	for k, v := range data {
		doc[k] = v
	}
	doc[FieldID] = id
	doc[FieldCreatedAt] = createdAt.UTC()
	doc[FieldUpdatedAt] = updatedAt.UTC()
	return doc, nil
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

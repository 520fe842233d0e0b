package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every collection in one JSONB table, created by
// migrations/001_documents.sql.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	where, args := postgresWhere(collection, q)
	query := `SELECT id, data FROM documents WHERE ` + where + ` ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		if d.Data == nil {
			d.Data = map[string]any{}
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return docs, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE collection = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
		collection, id, data)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// postgresWhere builds the WHERE clause. Field names are bound as parameters
// to ->>, and prefix ranges compare under the "C" collation so ordering is
// byte-wise like the other backends.
func postgresWhere(collection string, q Query) (string, []any) {
	clauses := []string{"collection = $1"}
	args := []any{collection}
	idx := 2

	for _, p := range q.Predicates {
		switch p.Op {
		case OpEqual:
			clauses = append(clauses, fmt.Sprintf("data->>$%d = $%d", idx, idx+1))
			args = append(args, p.Field, p.Value)
			idx += 2
		case OpPrefix:
			lo, hi := p.Range()
			clauses = append(clauses, fmt.Sprintf(
				`(data->>$%d) COLLATE "C" >= $%d AND (data->>$%d) COLLATE "C" <= $%d`,
				idx, idx+1, idx, idx+2))
			args = append(args, p.Field, lo, hi)
			idx += 3
		}
	}
	return strings.Join(clauses, " AND "), args
}

package corpus

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists training corpora in PostgreSQL so corpora can be shared
// between analyzer instances.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the corpus database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveCorpus stores a named corpus and returns its ID. An existing corpus
// with the same name is replaced.
func (s *Store) SaveCorpus(ctx context.Context, name string, examples []TrainingExample) (uuid.UUID, error) {
	if err := Validate(examples); err != nil {
		return uuid.Nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO corpora (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = $1, updated_at = NOW()
		 RETURNING id`,
		name,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert corpus: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM training_examples WHERE corpus_id = $1`, id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear corpus: %w", err)
	}

	for _, ex := range examples {
		_, err := tx.Exec(ctx,
			`INSERT INTO training_examples (corpus_id, text, label) VALUES ($1, $2, $3)`,
			id, ex.Text, ex.Label,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert example: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit corpus: %w", err)
	}
	return id, nil
}

// LoadCorpus reads a named corpus back in insertion order.
func (s *Store) LoadCorpus(ctx context.Context, name string) ([]TrainingExample, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT id FROM corpora WHERE name = $1`, name).Scan(&id)
	if err == pgx.ErrNoRows {
		return nil, &ValidationError{Message: fmt.Sprintf("corpus %q not found", name)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up corpus: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT text, label FROM training_examples WHERE corpus_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query examples: %w", err)
	}
	defer rows.Close()

	var examples []TrainingExample
	for rows.Next() {
		var ex TrainingExample
		if err := rows.Scan(&ex.Text, &ex.Label); err != nil {
			return nil, fmt.Errorf("failed to scan example: %w", err)
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read examples: %w", err)
	}
	return examples, nil
}

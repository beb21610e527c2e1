package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/jmoiron/sqlx"
)

const createCollectionsTable = `
	CREATE TABLE IF NOT EXISTS record_collections (
		name       TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// CollectionStore keeps each record collection as one JSONB row.
type CollectionStore struct {
	db *DB
}

func NewCollectionStore(db *DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// EnsureSchema creates the backing table when it is missing.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("error creating record_collections: %w", err)
	}
	return nil
}

func (s *CollectionStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := s.db.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer s.db.sem.Release(1)

	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM record_collections WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("error getting collection %s: %w", name, err)
	}
	return payload, nil
}

func (s *CollectionStore) Put(ctx context.Context, name string, data []byte) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO record_collections (name, payload, updated_at)
			VALUES ($1, $2::jsonb, NOW())
			ON CONFLICT (name) DO UPDATE
			SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
		`, name, string(data))
		if err != nil {
			return fmt.Errorf("error saving collection %s: %w", name, err)
		}
		return nil
	})
}

var _ storage.BlobStore = (*CollectionStore)(nil)

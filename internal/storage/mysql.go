package storage

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"github.com/matthieukhl/eashop/internal/database"
)

const (
	selectValueSQL = `SELECT value FROM app_local_storage WHERE owner = ? AND storage_key = ?`
	upsertValueSQL = `INSERT INTO app_local_storage (owner, storage_key, value) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value)`
)

// MySQLStore keeps local storage values in the app_local_storage table.
type MySQLStore struct {
	db *database.DB
}

func NewMySQLStore(db *database.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, selectValueSQL, owner, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s for %s", key, owner)
	}
	return value, true, nil
}

func (s *MySQLStore) Set(ctx context.Context, owner, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertValueSQL, owner, key, value); err != nil {
		return errors.Wrapf(err, "write %s for %s", key, owner)
	}
	return nil
}

var _ Store = (*MySQLStore)(nil)

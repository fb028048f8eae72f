package database

import "context"

// LocalStorageSQL holds the per-owner key/value table backing the Mini App's
// local storage.
const LocalStorageSQL = `CREATE TABLE IF NOT EXISTS app_local_storage (
    owner VARCHAR(128) NOT NULL,
    storage_key VARCHAR(128) NOT NULL,
    value JSON NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (owner, storage_key),
    INDEX idx_updated_at (updated_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// SetupSchema creates the storage tables
func (db *DB) SetupSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, LocalStorageSQL)
	return err
}

// DropSchema removes the storage tables and everything persisted in them
func (db *DB) DropSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS app_local_storage")
	return err
}

package storage

import (
	"fmt"

	"github.com/matthieukhl/eashop/internal/config"
	"github.com/matthieukhl/eashop/internal/database"
)

// NewStore creates a store based on configuration. The mysql backend needs an
// open connection; db is ignored for the memory backend.
func NewStore(cfg *config.StorageConfig, db *database.DB) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "mysql":
		if db == nil {
			return nil, fmt.Errorf("mysql storage requires a database connection")
		}
		return NewMySQLStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

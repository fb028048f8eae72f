package cmd

import (
	"fmt"

	"github.com/matthieukhl/eashop/internal/config"
	"github.com/matthieukhl/eashop/internal/database"
	"github.com/matthieukhl/eashop/internal/storage"
)

// openStore opens the configured cart storage. The returned close function is
// always safe to call.
func openStore(cfg *config.Config) (storage.Store, *database.DB, func(), error) {
	var db *database.DB
	if cfg.Storage.Backend == "mysql" {
		fmt.Println("🔌 Connecting to database...")
		var err error
		db, err = database.NewConnection(&cfg.DB)
		if err != nil {
			return nil, nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
		}
		fmt.Println("✅ Database connected successfully")
	}

	closeFn := func() {
		if db != nil {
			db.Close()
		}
	}

	store, err := storage.NewStore(&cfg.Storage, db)
	if err != nil {
		closeFn()
		return nil, nil, func() {}, fmt.Errorf("failed to create store: %w", err)
	}

	return store, db, closeFn, nil
}

// requirePersistentStorage rejects the memory backend for one-shot commands:
// whatever they write would be gone when the process exits.
func requirePersistentStorage(cfg *config.Config) error {
	switch cfg.Storage.Backend {
	case "", "memory":
		return fmt.Errorf("cart commands need persistent storage: storage.backend is %q, set it to mysql", cfg.Storage.Backend)
	}
	return nil
}

// checkIdentityConfig refuses to serve carts from persistent storage when
// init data cannot be verified, since any client could then claim any
// Telegram user id and read or change that user's cart.
func checkIdentityConfig(cfg *config.Config) error {
	if cfg.Telegram.Token() != "" || cfg.Storage.Backend != "mysql" {
		return nil
	}
	if cfg.Telegram.AllowUnverified {
		return nil
	}
	return fmt.Errorf("no bot token configured (%s is empty): refusing to trust unverified init data with mysql storage, set telegram.allow_unverified_init_data to override",
		cfg.Telegram.BotTokenEnv)
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/events"
	"github.com/matthieukhl/eashop/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and backing services",
	Long: `Load the configuration and try every backing service the server would
use: the cart storage, the event publisher and the logger. Nothing is
written.`,
	RunE: checkSetup,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking shop setup...")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Printf("   📝 Server address: %s\n", cfg.Server.Addr)

	if _, err := logging.NewLogger(&cfg.Log); err != nil {
		return err
	}
	fmt.Printf("   📜 Log level: %s\n", cfg.Log.Level)

	store, db, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	if _, _, err := store.Get(ctx, "check", "cart"); err != nil {
		return fmt.Errorf("storage read failed: %w", err)
	}
	fmt.Printf("   💾 Storage backend: %s\n", cfg.Storage.Backend)

	publisher, err := events.NewPublisher(&cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	publisher.Close()
	fmt.Printf("   📣 Events: %s\n", cfg.Events.Provider)

	if cfg.Telegram.Token() == "" {
		fmt.Println("   ⚠️  No bot token: init data will not be verified")
	} else {
		fmt.Println("   🔐 Bot token configured: init data is verified")
	}
	fmt.Printf("   🧾 Invoice provider: %s\n", cfg.Telegram.InvoiceProvider)

	fmt.Println("✅ Setup looks good!")
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/database"
)

var dropFirst bool

var setupCmd = &cobra.Command{
	Use:   "setup-storage",
	Short: "Create the MySQL table that stores carts",
	Long: `Creates the app_local_storage table used by the mysql storage backend.
Every owner's cart is kept there as a JSON array under the "cart" key.

Not needed for the memory backend.`,
	RunE: setupStorage,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop the existing table (and every stored cart) before creating")
}

func setupStorage(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up cart storage...")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if dropFirst {
		fmt.Println("🗑️  Dropping existing storage table...")
		if err := db.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Println("📋 Creating storage schema...")
	if err := db.SetupSchema(ctx); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	fmt.Println("✅ Storage setup complete!")
	return nil
}

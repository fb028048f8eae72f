package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "eashop",
	Short: "Expert Advisor Shop - Telegram Mini App storefront",
	Long: `Expert Advisor Shop serves a small catalog of trading Expert Advisors
as a Telegram Mini App. Shoppers browse and search the catalog, keep a cart
that survives reloads, and check out through a Telegram invoice.

The same binary offers CLI commands to inspect the catalog, manage stored
carts and verify the invoice provider.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./deploy/config.yaml, ./config.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigFile(cfgFile)
	}
	return config.LoadConfig()
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/telegram"
)

var testAmount string

var testInvoiceCmd = &cobra.Command{
	Use:   "test-invoice",
	Short: "Test the invoice provider",
	Long: `Create a single invoice link with the configured provider.
This helps verify the bot token and payment provider token before
opening the shop to customers.`,
	RunE: testInvoice,
}

func init() {
	rootCmd.AddCommand(testInvoiceCmd)

	testInvoiceCmd.Flags().StringVar(&testAmount, "amount", "1.00", "Invoice amount")
}

func testInvoice(cmd *cobra.Command, args []string) error {
	fmt.Println("🧪 Testing invoice provider...")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	amount, err := decimal.NewFromString(testAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", testAmount, err)
	}

	invoicer, err := telegram.NewInvoicer(&cfg.Telegram)
	if err != nil {
		return fmt.Errorf("failed to create invoicer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("🧾 Creating %s %s invoice with the %s provider...\n", amount.StringFixed(2), cfg.Telegram.Currency, invoicer.Name())
	link, err := invoicer.CreateInvoice(ctx, telegram.Invoice{
		Title:       "Expert Advisor Shop",
		Description: "Test invoice",
		Payload:     "test-" + uuid.NewString(),
		Currency:    cfg.Telegram.Currency,
		Prices:      []telegram.LabeledPrice{{Label: "Test", Amount: amount}},
	})
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	fmt.Printf("   ✅ Invoice link: %s\n", link)
	return nil
}

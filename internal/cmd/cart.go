package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/shop"
	"github.com/matthieukhl/eashop/internal/telegram"
)

var cartOwner string

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and edit a stored cart",
	Long: `Operate on the cart stored for one owner in the configured storage.
Owners are "tg:<telegram user id>" for identified users and
"session:<id>" for anonymous visitors.`,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents and total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShop(func(ctx context.Context, svc *shop.Service) error {
			summary, err := svc.Cart(ctx, cartOwner)
			if err != nil {
				return err
			}
			printCart(summary)
			return nil
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product id>",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return withShop(func(ctx context.Context, svc *shop.Service) error {
			summary, err := svc.AddToCart(ctx, cartOwner, id)
			if err != nil {
				return err
			}
			printCart(summary)
			return nil
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product id>",
	Short: "Remove one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return withShop(func(ctx context.Context, svc *shop.Service) error {
			summary, err := svc.RemoveFromCart(ctx, cartOwner, id)
			if err != nil {
				return err
			}
			printCart(summary)
			return nil
		})
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Request an invoice link for the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShop(func(ctx context.Context, svc *shop.Service) error {
			res, err := svc.Checkout(ctx, cartOwner, nil)
			if err != nil {
				return err
			}
			fmt.Printf("🧾 Invoice for %s %s: %s\n", res.Total.StringFixed(2), res.Currency, res.InvoiceURL)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartCheckoutCmd)

	cartCmd.PersistentFlags().StringVar(&cartOwner, "owner", "", "Cart owner, e.g. tg:123456789")
	_ = cartCmd.MarkPersistentFlagRequired("owner")
}

func withShop(fn func(ctx context.Context, svc *shop.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := requirePersistentStorage(cfg); err != nil {
		return err
	}

	store, _, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	invoicer, err := telegram.NewInvoicer(&cfg.Telegram)
	if err != nil {
		return fmt.Errorf("failed to create invoicer: %w", err)
	}

	svc := shop.NewService(catalog.Default(), store, invoicer, shop.WithCurrency(cfg.Telegram.Currency))
	return fn(context.Background(), svc)
}

func printCart(summary *shop.CartSummary) {
	if summary.Empty {
		fmt.Println("🛒 Your cart is empty.")
		return
	}

	fmt.Printf("🛒 %d item%s:\n", summary.Count, pluralize(summary.Count))
	for _, line := range summary.Lines {
		fmt.Printf("   %-20s $%s x %d = $%s\n",
			line.Product.Name, line.Product.Price.StringFixed(2), line.Quantity, line.Subtotal.StringFixed(2))
	}
	fmt.Printf("   Total: $%s\n", summary.Total.StringFixed(2))
}

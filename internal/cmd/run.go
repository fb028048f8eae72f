package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/events"
	"github.com/matthieukhl/eashop/internal/logging"
	"github.com/matthieukhl/eashop/internal/server"
	"github.com/matthieukhl/eashop/internal/shop"
	"github.com/matthieukhl/eashop/internal/telegram"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the shop server",
	Long: `Start the shop server which provides:
- The Mini App page opened from the Telegram bot
- REST API for catalog search, cart and navigation state
- Checkout through the configured invoice provider`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Expert Advisor Shop Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := checkIdentityConfig(cfg); err != nil {
		return err
	}

	logger, err := logging.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, db, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	invoicer, err := telegram.NewInvoicer(&cfg.Telegram)
	if err != nil {
		return fmt.Errorf("failed to create invoicer: %w", err)
	}

	publisher, err := events.NewPublisher(&cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	if cfg.Telegram.Token() == "" {
		fmt.Println("⚠️  No bot token configured: Telegram init data is NOT verified and any client can act as any user")
		logger.Warn("init data is trusted without verification",
			zap.String("token_env", cfg.Telegram.BotTokenEnv),
			zap.String("storage", cfg.Storage.Backend),
			zap.Bool("allow_unverified", cfg.Telegram.AllowUnverified),
		)
	}

	svc := shop.NewService(catalog.Default(), store, invoicer,
		shop.WithPublisher(publisher),
		shop.WithLogger(logger),
		shop.WithCurrency(cfg.Telegram.Currency),
		shop.WithSessionCache(cfg.Session.CacheSize, cfg.Session.TTL),
	)

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(svc, db, cfg.Telegram, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	logger.Info("server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("invoice_provider", invoicer.Name()),
		zap.String("events", cfg.Events.Provider),
	)
	if err := srv.Start(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Println("👋 Server stopped")
	return nil
}

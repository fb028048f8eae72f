package telegram

import (
	"fmt"

	"github.com/matthieukhl/eashop/internal/config"
)

// NewInvoicer creates an invoicer based on configuration
func NewInvoicer(cfg *config.TelegramConfig) (Invoicer, error) {
	switch cfg.InvoiceProvider {
	case "", "stub":
		return NewStubInvoicer(cfg.BotUsername), nil
	case "bot":
		return NewBotAPIInvoicer(cfg.APIBaseURL, cfg.Token(), cfg.ProviderToken)
	default:
		return nil, fmt.Errorf("unsupported invoice provider: %s", cfg.InvoiceProvider)
	}
}

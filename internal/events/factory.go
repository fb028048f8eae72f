package events

import (
	"fmt"

	"github.com/matthieukhl/eashop/internal/config"
)

// NewPublisher creates a publisher based on configuration
func NewPublisher(cfg *config.EventsConfig) (Publisher, error) {
	switch cfg.Provider {
	case "", "nop":
		return NopPublisher{}, nil
	case "amqp":
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("events.amqp_url is required for the amqp provider")
		}
		return DialAMQP(cfg.AMQPURL, cfg.Queue)
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", cfg.Provider)
	}
}

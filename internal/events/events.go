// Package events announces checkouts to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/eashop/internal/models"
)

// CheckoutEvent is published after an invoice link has been handed out.
type CheckoutEvent struct {
	ID         string            `json:"id"`
	Owner      string            `json:"owner"`
	UserID     int64             `json:"user_id,omitempty"`
	InvoiceURL string            `json:"invoice_url"`
	Currency   string            `json:"currency"`
	Total      decimal.Decimal   `json:"total"`
	Lines      []models.CartLine `json:"lines"`
	CreatedAt  time.Time         `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event CheckoutEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CheckoutEvent) error { return nil }
func (NopPublisher) Close() error                                 { return nil }

var _ Publisher = NopPublisher{}

package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/events"
	"github.com/matthieukhl/eashop/internal/telegram"
)

const invoiceTitle = "Expert Advisor Shop"

// checkoutError matches ErrCheckoutFailed and keeps the invoicer error in the
// chain, so callers can still tell a cancelled request apart.
type checkoutError struct {
	err error
}

func (e *checkoutError) Error() string        { return ErrCheckoutFailed.Error() + ": " + e.err.Error() }
func (e *checkoutError) Unwrap() error        { return e.err }
func (e *checkoutError) Is(target error) bool { return target == ErrCheckoutFailed }

type CheckoutResult struct {
	ID         string          `json:"id"`
	InvoiceURL string          `json:"invoice_url"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
}

// Checkout requests an invoice for the whole cart. The cart is left as is;
// paying happens on the platform side.
func (s *Service) Checkout(ctx context.Context, owner string, user *telegram.User) (*CheckoutResult, error) {
	s.mu.Lock()
	sess, err := s.load(ctx, owner, true)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	summary := summarize(sess.cart)
	s.mu.Unlock()

	if summary.Empty {
		return nil, ErrEmptyCart
	}

	id := uuid.NewString()
	inv := telegram.Invoice{
		Title:       invoiceTitle,
		Description: fmt.Sprintf("%d Expert Advisor license(s)", summary.Count),
		Payload:     id,
		Currency:    s.currency,
	}
	for _, line := range summary.Lines {
		inv.Prices = append(inv.Prices, telegram.LabeledPrice{
			Label:  fmt.Sprintf("%s x %d", line.Product.Name, line.Quantity),
			Amount: line.Subtotal,
		})
	}

	link, err := s.invoicer.CreateInvoice(ctx, inv)
	if err != nil {
		s.logger.Error("failed to create invoice",
			zap.String("owner", owner),
			zap.String("provider", s.invoicer.Name()),
			zap.String("total", summary.Total.StringFixed(2)),
			zap.Error(err),
		)
		return nil, &checkoutError{err: err}
	}

	s.logger.Info("invoice created",
		zap.String("owner", owner),
		zap.String("checkout_id", id),
		zap.String("total", summary.Total.StringFixed(2)),
		zap.String("currency", s.currency),
	)

	event := events.CheckoutEvent{
		ID:         id,
		Owner:      owner,
		InvoiceURL: link,
		Currency:   s.currency,
		Total:      summary.Total,
		Lines:      summary.Lines,
		CreatedAt:  time.Now().UTC(),
	}
	if user != nil {
		event.UserID = user.ID
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish checkout event", zap.String("checkout_id", id), zap.Error(err))
	}

	return &CheckoutResult{
		ID:         id,
		InvoiceURL: link,
		Total:      summary.Total,
		Currency:   s.currency,
	}, nil
}

package telegram

import (
	"context"

	"github.com/shopspring/decimal"
)

// Invoicer produces a URL the web page passes to openInvoice.
type Invoicer interface {
	CreateInvoice(ctx context.Context, inv Invoice) (string, error)
	Name() string
}

type Invoice struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	Prices      []LabeledPrice
}

// LabeledPrice is one line of an invoice.
type LabeledPrice struct {
	Label  string
	Amount decimal.Decimal
}

// Total sums every price line.
func (inv Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Prices {
		total = total.Add(p.Amount)
	}
	return total
}

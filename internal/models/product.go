package models

import (
	"github.com/shopspring/decimal"
)

// Product represents an Expert Advisor offered in the shop.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
}

// CartLine is a product grouped with the number of units in the cart.
type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Product categories
const (
	CategoryTrendFollowing = "Trend Following"
	CategoryScalping       = "Scalping"
	CategoryNewsTrading    = "News Trading"
)

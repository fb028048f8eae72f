// Package catalog holds the static product list compiled into the shop.
package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/eashop/internal/models"
)

// ErrProductNotFound is returned when a product id is not part of the catalog.
var ErrProductNotFound = errors.New("product not found")

var products = []models.Product{
	{
		ID:          1,
		Name:        "Trend Master EA",
		Price:       decimal.RequireFromString("199.99"),
		Description: "Advanced trend-following Expert Advisor for major currency pairs.",
		Category:    models.CategoryTrendFollowing,
		Images:      []string{"https://images.unsplash.com/photo-1611974789855-9c2a0a7236a3?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=1740&q=80"},
	},
	{
		ID:          2,
		Name:        "Scalper Pro",
		Price:       decimal.RequireFromString("149.99"),
		Description: "High-frequency trading EA designed for quick profits in volatile markets.",
		Category:    models.CategoryScalping,
		Images:      []string{"https://images.unsplash.com/photo-1613442301239-ea2478101ea7?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=1740&q=80"},
	},
	{
		ID:          3,
		Name:        "News Trader",
		Price:       decimal.RequireFromString("249.99"),
		Description: "EA that capitalizes on market movements during major economic news releases.",
		Category:    models.CategoryNewsTrading,
		Images:      []string{"https://images.unsplash.com/photo-1590283603385-17ffb3a7f29f?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=1740&q=80"},
	},
}

// Catalog is a read-only view over a fixed product list.
type Catalog struct {
	products []models.Product
	byID     map[int64]int
}

// Default returns the catalog shipped with the shop.
func Default() *Catalog {
	return New(products)
}

// New builds a catalog from the given products. Later duplicates of an id
// are ignored.
func New(items []models.Product) *Catalog {
	c := &Catalog{
		byID: make(map[int64]int, len(items)),
	}
	for _, p := range items {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, clone(p))
	}
	return c
}

// Products returns every product in declaration order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = clone(p)
	}
	return out
}

// Get looks up a product by id.
func (c *Catalog) Get(id int64) (models.Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Product{}, errors.Wrapf(ErrProductNotFound, "id %d", id)
	}
	return clone(c.products[idx]), nil
}

// Has reports whether id names a catalog product.
func (c *Catalog) Has(id int64) bool {
	_, ok := c.byID[id]
	return ok
}

// Search returns the products whose name, description or category contains
// term, ignoring case. An empty term matches everything.
func (c *Catalog) Search(term string) []models.Product {
	needle := strings.ToLower(term)
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, clone(p))
		}
	}
	return out
}

func clone(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

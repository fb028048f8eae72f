// Package cart implements the client cart: an ordered list holding one entry
// per purchased unit. Quantities are derived by counting entries.
package cart

import (
	"encoding/json"
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/eashop/internal/models"
)

// StorageKey is the local storage key the cart is persisted under.
const StorageKey = "cart"

// Catalog is the lookup Sanitize needs to verify entries.
type Catalog interface {
	Get(id int64) (models.Product, error)
}

type Cart struct {
	items []models.Product
}

// New returns a cart holding the given entries in order.
func New(entries ...models.Product) *Cart {
	c := &Cart{}
	for _, p := range entries {
		c.Add(p)
	}
	return c
}

// Add appends one unit of p.
func (c *Cart) Add(p models.Product) {
	p.Images = append([]string(nil), p.Images...)
	c.items = append(c.items, p)
}

// Remove deletes the first entry with the given id. It reports false and
// leaves the cart untouched when no entry matches.
func (c *Cart) Remove(id int64) bool {
	for i, p := range c.items {
		if p.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Quantity counts the entries for product id.
func (c *Cart) Quantity(id int64) int {
	n := 0
	for _, p := range c.items {
		if p.ID == id {
			n++
		}
	}
	return n
}

// Len is the number of units in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []models.Product {
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums the price of every entry.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.items {
		total = total.Add(p.Price)
	}
	return total
}

// Group collapses entries into one line per product, ordered by product id.
// The first entry seen for an id provides the line's product data.
func (c *Cart) Group() []models.CartLine {
	index := make(map[int64]int)
	var lines []models.CartLine
	for _, p := range c.items {
		i, ok := index[p.ID]
		if !ok {
			index[p.ID] = len(lines)
			lines = append(lines, models.CartLine{Product: p, Subtotal: decimal.Zero})
			i = len(lines) - 1
		}
		lines[i].Quantity++
		lines[i].Subtotal = lines[i].Subtotal.Add(lines[i].Product.Price)
	}
	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].Product.ID < lines[b].Product.ID
	})
	return lines
}

// Sanitize drops entries that do not name a catalog product and refreshes the
// remaining ones from the catalog. It returns the number of dropped entries.
func (c *Cart) Sanitize(known Catalog) int {
	kept := c.items[:0]
	dropped := 0
	for _, p := range c.items {
		fresh, err := known.Get(p.ID)
		if err != nil {
			dropped++
			continue
		}
		kept = append(kept, fresh)
	}
	c.items = kept
	return dropped
}

// Marshal encodes the cart as a JSON array of product entries.
func (c *Cart) Marshal() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []models.Product{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "marshal cart")
	}
	return data, nil
}

// Unmarshal decodes a JSON array of product entries. Empty input yields an
// empty cart.
func Unmarshal(data []byte) (*Cart, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var items []models.Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}
	return New(items...), nil
}

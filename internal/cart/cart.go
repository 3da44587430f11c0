package cart

import (
	"github.com/fekuna/omnipos-storefront/internal/model"
)

// Item is a product held in the cart. Quantity is always at least 1.
type Item struct {
	model.Product
	Quantity int `json:"quantity"`
}

// Cart is an ordered collection of items keyed by product id. It is not safe
// for concurrent use; the owning session serializes access.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing entry or appends a new one.
// Quantities below 1 are ignored.
func (c *Cart) Add(p model.Product, qty int) {
	if qty < 1 {
		return
	}
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	c.items = append(c.items, Item{Product: p, Quantity: qty})
}

// AdjustQuantity applies delta to an entry and removes it when the result is
// not positive. Unknown ids are a no-op.
func (c *Cart) AdjustQuantity(id int64, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	q := c.items[i].Quantity + delta
	if q <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = q
}

func (c *Cart) Remove(id int64) {
	if i := c.index(id); i >= 0 {
		c.removeAt(i)
	}
}

// Total is the sum of quantities, shown on the cart badge.
func (c *Cart) Total() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.items) }

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Clear() {
	c.items = nil
}

// Consume removes the quantities of items, a snapshot taken earlier by
// LineItems. Anything added since the snapshot stays in the cart.
func (c *Cart) Consume(items []model.LineItem) {
	for _, it := range items {
		c.AdjustQuantity(it.ID, -it.Quantity)
	}
}

// LineItems projects the cart for receipt printing.
func (c *Cart) LineItems() []model.LineItem {
	out := make([]model.LineItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, model.LineItem{
			ID:          it.ID,
			Description: it.Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return out
}

func (c *Cart) index(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

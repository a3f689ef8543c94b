// Package cart holds the shopper's in-memory cart. Lines are keyed by
// (product id, set flag): the same product bought as a set and on its own
// are two lines.
package cart

import (
	"sync"

	models "furnisure/model"
)

type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Add puts quantity of product on the line for (product, selectedSet),
// creating the line if needed. A quantity <= 0 adds one.
func (c *Cart) Add(product models.Product, quantity int, selectedSet bool) {
	if quantity <= 0 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := models.LineKey{ProductID: product.ID, SelectedSet: selectedSet}
	if i := c.index(key); i >= 0 {
		c.items[i].Quantity += quantity
		return
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: quantity, SelectedSet: selectedSet})
}

// RemoveFromCart drops every line of the product, set and single alike.
func (c *Cart) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// RemoveLine drops exactly one line.
func (c *Cart) RemoveLine(key models.LineKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(key); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
func (c *Cart) UpdateQuantity(key models.LineKey, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(key)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return
	}
	c.items[i].Quantity = quantity
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// TotalPrice sums unit price (set price for set lines) times quantity.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

// TotalItems is the number of units, not lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) index(key models.LineKey) int {
	for i, it := range c.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

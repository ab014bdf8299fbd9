package shop

import "florist/internal/models"

// Cart is the ordered set of items a user intends to buy.
// The zero value is an empty cart.
type Cart struct {
	items []models.CartItem
}

// Add puts one unit of product into the cart, merging with an existing entry.
func (c *Cart) Add(product models.Product) {
	if i := c.index(product.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: 1})
}

// UpdateQuantity sets the quantity for id. Zero removes the entry; an absent
// id is ignored.
func (c *Cart) UpdateQuantity(id int64, quantity int) error {
	if quantity < 0 {
		return wrap(ErrInvalidQuantity, "got %d for product %d", quantity, id)
	}
	i := c.index(id)
	if i < 0 {
		return nil
	}
	if quantity == 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = quantity
	return nil
}

// Remove drops the entry for id.
func (c *Cart) Remove(id int64) {
	_ = c.UpdateQuantity(id, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Quantity returns the quantity held for id, or 0.
func (c *Cart) Quantity(id int64) int {
	if i := c.index(id); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Len is the number of distinct products in the cart.
func (c *Cart) Len() int { return len(c.items) }

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of price × quantity.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

func (c *Cart) index(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

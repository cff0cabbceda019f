package cart

import (
	"signage-portal/internal/models"

	"github.com/shopspring/decimal"
)

// Cart is an ordered collection of cart lines
type Cart struct {
	lines []models.CartLine
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of product (in the given size) into the cart.
// An existing line with the same product and size is incremented; otherwise
// a new line is appended with at least one unit. Stock is not checked.
func (c *Cart) Add(product models.Product, quantity int, size string) {
	if i := c.find(product.ID, size); i >= 0 {
		c.lines[i].Quantity += quantity
		if c.lines[i].Quantity <= 0 {
			c.removeAt(i)
		}
		return
	}

	if quantity < 1 {
		quantity = 1
	}

	c.lines = append(c.lines, models.CartLine{
		Product:      product,
		SelectedSize: size,
		Quantity:     quantity,
	})
}

// Remove deletes every line for productID regardless of size.
// It reports whether anything was removed.
func (c *Cart) Remove(productID string) bool {
	kept := c.lines[:0]
	removed := false
	for _, l := range c.lines {
		if l.Product.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	clearTail(c.lines, len(kept))
	c.lines = kept
	return removed
}

// UpdateQuantity sets the quantity of every line for productID.
// A quantity of zero or less removes those lines instead.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}

	updated := false
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			updated = true
		}
	}
	return updated
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// TotalItems returns the sum of quantities across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice returns the sum of price * quantity across all lines.
// Tax and shipping are checkout concerns and are not included.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) find(productID, size string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID && l.SelectedSize == size {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// clearTail zeroes the abandoned tail so removed products can be collected
func clearTail(lines []models.CartLine, from int) {
	for i := from; i < len(lines); i++ {
		lines[i] = models.CartLine{}
	}
}

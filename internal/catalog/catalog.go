package catalog

import (
	"signage-portal/internal/models"
)

// Catalog is read-only product reference data seeded at startup
type Catalog struct {
	products []models.Product
	byID     map[string]int
}

// New creates a catalog over products. Later duplicates of an ID are
// ignored for lookup but keep their place in listings.
func New(products []models.Product) *Catalog {
	c := &Catalog{
		products: make([]models.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; !exists {
			c.byID[p.ID] = i
		}
	}

	return c
}

// ProductByID returns the product with the given ID
func (c *Catalog) ProductByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// ProductsByCategory returns products whose category matches exactly, in catalog order
func (c *Catalog) ProductsByCategory(category string) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Products returns every product
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// DefaultFeatured is the number of products the dashboard shows
const DefaultFeatured = 4

// Featured returns the first n products
func (c *Catalog) Featured(n int) []models.Product {
	if n < 0 {
		n = 0
	}
	if n > len(c.products) {
		n = len(c.products)
	}
	out := make([]models.Product, n)
	copy(out, c.products[:n])
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

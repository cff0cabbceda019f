package api

import (
	"net/http"

	"signage-portal/internal/format"
	"signage-portal/internal/models"
	"signage-portal/internal/util"

	"github.com/gin-gonic/gin"
)

type productView struct {
	models.Product
	PriceFormatted string `json:"price_formatted"`
}

func newProductView(p models.Product) productView {
	return productView{Product: p, PriceFormatted: format.Currency(p.Price)}
}

func productViews(products []models.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

// listProducts returns the catalog, optionally narrowed to ?category=
func (h *Handler) listProducts(c *gin.Context) {
	products := h.catalog.Products()
	if category := c.Query("category"); category != "" && category != "All" {
		products = h.catalog.ProductsByCategory(category)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": productViews(products),
		"count":    len(products),
	})
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id := c.Param("id")

	product, ok := h.catalog.ProductByID(id)
	if !ok {
		util.LookupsTotal.WithLabelValues("product", "miss").Inc()
		respondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}
	util.LookupsTotal.WithLabelValues("product", "hit").Inc()

	c.JSON(http.StatusOK, newProductView(product))
}

// listCategories returns categories in catalog order
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalog.Categories(),
	})
}

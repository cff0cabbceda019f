package api

import (
	"errors"
	"net/http"

	"signage-portal/internal/service"
	"signage-portal/internal/session"
	"signage-portal/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cartView struct {
	SessionID string          `json:"session_id"`
	Summary   service.Summary `json:"summary"`
}

func newCartView(s *session.Session) cartView {
	return cartView{SessionID: s.ID, Summary: service.Summarize(s.Cart)}
}

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// UpdateItemRequest is the body of PATCH /cart/items/:productId
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// getCart returns the session's cart with its order summary
func (h *Handler) getCart(c *gin.Context) {
	var view cartView
	err := h.withSession(c, func(s *session.Session) error {
		view = newCartView(s)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// addCartItem adds a catalog product to the cart. Quantity defaults to 1 and
// size to the product's first size.
func (h *Handler) addCartItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	product, ok := h.catalog.ProductByID(req.ProductID)
	if !ok {
		util.LookupsTotal.WithLabelValues("product", "miss").Inc()
		respondError(c, http.StatusNotFound, "Product not found", nil)
		return
	}
	util.LookupsTotal.WithLabelValues("product", "hit").Inc()

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Size == "" && product.HasSizes() {
		req.Size = product.Sizes[0]
	}

	var view cartView
	err := h.withSession(c, func(s *session.Session) error {
		s.Cart.Add(product, req.Quantity, req.Size)
		view = newCartView(s)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()
	if req.Quantity > 0 {
		util.CartItemsAdded.Add(float64(req.Quantity))
	}

	c.JSON(http.StatusOK, view)
}

// updateCartItem sets the quantity of every line of a product; zero or less removes it
func (h *Handler) updateCartItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	productID := c.Param("productId")
	var (
		view  cartView
		found bool
	)
	err := h.withSession(c, func(s *session.Session) error {
		found = s.Cart.UpdateQuantity(productID, *req.Quantity)
		view = newCartView(s)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Product not in cart", nil)
		return
	}

	util.CartOperationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, view)
}

// removeCartItem drops every line of a product
func (h *Handler) removeCartItem(c *gin.Context) {
	productID := c.Param("productId")
	var (
		view  cartView
		found bool
	)
	err := h.withSession(c, func(s *session.Session) error {
		found = s.Cart.Remove(productID)
		view = newCartView(s)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Product not in cart", nil)
		return
	}

	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	c.JSON(http.StatusOK, view)
}

// clearCart empties the cart
func (h *Handler) clearCart(c *gin.Context) {
	var view cartView
	err := h.withSession(c, func(s *session.Session) error {
		s.Cart.Clear()
		view = newCartView(s)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}

	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	c.JSON(http.StatusOK, view)
}

// checkoutCart hands the cart to the checkout stub. The cart is kept.
func (h *Handler) checkoutCart(c *gin.Context) {
	var req service.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	req.SessionID = c.GetString(sessionKey)

	var resp *service.CheckoutResponse
	err := h.withSession(c, func(s *session.Session) error {
		var err error
		resp, err = h.checkout.Checkout(c.Request.Context(), req, s.Cart)
		return err
	})

	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, resp)
	case errors.Is(err, service.ErrEmptyCart):
		respondError(c, http.StatusUnprocessableEntity, "Cart is empty", err)
	case errors.Is(err, service.ErrDuplicateCheckout):
		respondError(c, http.StatusConflict, "Checkout already requested", err)
	case errors.Is(err, session.ErrSessionNotFound):
		h.sessionFailure(c, err)
	default:
		h.logger.Error("Checkout failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to request checkout", err)
	}
}

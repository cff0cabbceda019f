package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signage-portal/internal/broker"
	"signage-portal/internal/catalog"
	"signage-portal/internal/notify"
	"signage-portal/internal/orders"
	"signage-portal/internal/seed"
	"signage-portal/internal/service"
	"signage-portal/internal/session"
	"signage-portal/internal/support"
	"signage-portal/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Thursday, Jan 25 2024
var testNow = time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router        *gin.Engine
	handler       *Handler
	sessions      *session.Manager
	notifications *notify.Center
}

func newTestServer(t *testing.T, checks map[string]ReadyCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products, err := seed.Products()
	require.NoError(t, err)
	seeded, err := seed.Orders()
	require.NoError(t, err)

	center := notify.NewCenter()
	center.SeedFromOrders(seeded)

	sessions := session.NewManager(session.Options{
		Responder: func(string) string { return "Thanks for your message! I'll help you with that." },
	})
	t.Cleanup(sessions.Close)

	events := broker.NewLocalPublisher(worker.NewNotificationWorker(nil, center).Handler())

	h := NewHandler(Deps{
		Catalog:       catalog.New(products),
		Orders:        orders.NewRepository(seeded),
		Sessions:      sessions,
		Notifications: center,
		Scheduler:     support.NewScheduler(),
		Checkout:      service.NewCheckoutService(service.NewMemoryGuard(), events, time.Minute),
		Callbacks:     events,
		ReadyChecks:   checks,
	})
	h.now = func() time.Time { return testNow }

	router := gin.New()
	h.SetupRoutes(router)

	return &testServer{router: router, handler: h, sessions: sessions, notifications: center}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil, "").Code)

	w := s.do(t, http.MethodGet, "/ready", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Products int `json:"products"`
		Orders   int `json:"orders"`
	}
	decode(t, w, &body)
	assert.Equal(t, 12, body.Products)
	assert.Equal(t, 7, body.Orders)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	s := newTestServer(t, map[string]ReadyCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	w := s.do(t, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t, nil)

	var all struct {
		Count int `json:"count"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/v1/products", nil, ""), &all)
	assert.Equal(t, 12, all.Count)

	var exterior struct {
		Products []struct {
			ID             string `json:"id"`
			PriceFormatted string `json:"price_formatted"`
		} `json:"products"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/v1/products?category=Exterior+Signs", nil, ""), &exterior)
	require.Len(t, exterior.Products, 3)
	assert.Equal(t, "prod-001", exterior.Products[0].ID)
	assert.Equal(t, "$2,499.99", exterior.Products[0].PriceFormatted)
	assert.Equal(t, "prod-007", exterior.Products[2].ID)

	var none struct {
		Products []interface{} `json:"products"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/v1/products?category=Neon", nil, ""), &none)
	assert.NotNil(t, none.Products)
	assert.Empty(t, none.Products)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/products/prod-004", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"Digital Signs"`)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/products/prod-999", nil, "").Code)
}

func TestCategories(t *testing.T) {
	s := newTestServer(t, nil)

	var body struct {
		Categories []string `json:"categories"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/v1/categories", nil, ""), &body)
	assert.Len(t, body.Categories, 8)
	assert.Equal(t, "Exterior Signs", body.Categories[0])
}

type cartBody struct {
	SessionID string          `json:"session_id"`
	Summary   service.Summary `json:"summary"`
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-005", Quantity: 2}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sid := w.Header().Get(SessionHeader)
	require.NotEmpty(t, sid)

	var cart cartBody
	decode(t, w, &cart)
	assert.Equal(t, sid, cart.SessionID)
	require.Len(t, cart.Summary.Lines, 1)
	assert.Equal(t, "3x6 ft", cart.Summary.Lines[0].Size, "first size is the default")

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-003", Size: `30x40"`}, sid)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Equal(t, 3, cart.Summary.TotalItems)
	assert.Equal(t, "$369.97", cart.Summary.SubtotalFormatted)
	assert.Equal(t, service.CalculatedAtCheckout, cart.Summary.Tax)

	qty := 5
	w = s.do(t, http.MethodPatch, "/api/v1/cart/items/prod-005", UpdateItemRequest{Quantity: &qty}, sid)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Equal(t, 6, cart.Summary.TotalItems)

	w = s.do(t, http.MethodDelete, "/api/v1/cart/items/prod-003", nil, sid)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Equal(t, 5, cart.Summary.TotalItems)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/cart/items/prod-003", nil, sid).Code)

	w = s.do(t, http.MethodDelete, "/api/v1/cart", nil, sid)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Equal(t, 0, cart.Summary.TotalItems)
	assert.Empty(t, cart.Summary.Lines)
}

func TestCartUpdateToZeroRemoves(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-008"}, "")
	sid := w.Header().Get(SessionHeader)

	zero := 0
	w = s.do(t, http.MethodPatch, "/api/v1/cart/items/prod-008", UpdateItemRequest{Quantity: &zero}, sid)
	require.Equal(t, http.StatusOK, w.Code)

	var cart cartBody
	decode(t, w, &cart)
	assert.Equal(t, 0, cart.Summary.TotalItems)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	s := newTestServer(t, nil)

	a := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-010"}, "").Header().Get(SessionHeader)
	b := s.do(t, http.MethodGet, "/api/v1/cart", nil, "").Header().Get(SessionHeader)
	require.NotEqual(t, a, b)

	var cart cartBody
	decode(t, s.do(t, http.MethodGet, "/api/v1/cart", nil, b), &cart)
	assert.Equal(t, 0, cart.Summary.TotalItems)

	decode(t, s.do(t, http.MethodGet, "/api/v1/cart", nil, a), &cart)
	assert.Equal(t, 1, cart.Summary.TotalItems)
}

func TestCartRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]string{}, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "nope"}, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/api/v1/cart/items/prod-001", map[string]string{}, "").Code)
}

func TestCheckout(t *testing.T) {
	s := newTestServer(t, nil)
	before := s.notifications.UnreadCount()

	w := s.do(t, http.MethodPost, "/api/v1/cart/checkout", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	sid := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-001", Quantity: 1}, "").Header().Get(SessionHeader)

	body := service.CheckoutRequest{IdempotencyKey: "click-1"}
	w = s.do(t, http.MethodPost, "/api/v1/cart/checkout", body, sid)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp service.CheckoutResponse
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.CheckoutID)
	assert.Equal(t, "$2,499.99", resp.Summary.SubtotalFormatted)

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/cart/checkout", body, sid).Code)

	var cart cartBody
	decode(t, s.do(t, http.MethodGet, "/api/v1/cart", nil, sid), &cart)
	assert.Equal(t, 1, cart.Summary.TotalItems, "checkout keeps the cart")

	assert.Equal(t, before+1, s.notifications.UnreadCount())
	assert.Equal(t, "Checkout Requested", s.notifications.List()[0].Title)
}

func TestEndSession(t *testing.T) {
	s := newTestServer(t, nil)

	sid := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-001"}, "").Header().Get(SessionHeader)
	require.True(t, s.sessions.Exists(sid))

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/session", nil, sid).Code)
	assert.False(t, s.sessions.Exists(sid))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/session", nil, sid).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodDelete, "/api/v1/session", nil, "").Code)

	w := s.do(t, http.MethodGet, "/api/v1/cart", nil, sid)
	assert.NotEqual(t, sid, w.Header().Get(SessionHeader), "a stale id opens a fresh session")
}

func TestSessionCookie(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "prod-002"}, "")
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var cart cartBody
	decode(t, rec, &cart)
	assert.Equal(t, cookies[0].Value, cart.SessionID)
	assert.Equal(t, 1, cart.Summary.TotalItems)
}

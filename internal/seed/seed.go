package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"signage-portal/internal/models"
	"signage-portal/internal/status"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/products.yaml
var productsYAML []byte

//go:embed data/orders.yaml
var ordersYAML []byte

// DeliveryUnknown is the fixture value for an order without an estimated delivery
const DeliveryUnknown = "TBD"

type productsDoc struct {
	Products []productDoc `yaml:"products"`
}

type productDoc struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	InStock     bool     `yaml:"in_stock"`
	Features    []string `yaml:"features"`
	Sizes       []string `yaml:"sizes"`
}

type ordersDoc struct {
	Orders []orderDoc `yaml:"orders"`
}

type orderDoc struct {
	ID                string        `yaml:"id"`
	OrderNumber       string        `yaml:"order_number"`
	CustomerName      string        `yaml:"customer_name"`
	CustomerEmail     string        `yaml:"customer_email"`
	PlacedDate        string        `yaml:"placed_date"`
	Status            string        `yaml:"status"`
	Items             []itemDoc     `yaml:"items"`
	Subtotal          string        `yaml:"subtotal"`
	Tax               string        `yaml:"tax"`
	Shipping          string        `yaml:"shipping"`
	Total             string        `yaml:"total"`
	EstimatedDelivery string        `yaml:"estimated_delivery"`
	Tracking          []trackingDoc `yaml:"tracking"`
	ShippingAddress   addressDoc    `yaml:"shipping_address"`
	StatusHistory     []historyDoc  `yaml:"status_history"`
	Notes             string        `yaml:"notes"`
}

type itemDoc struct {
	ProductID     string `yaml:"product_id"`
	ProductName   string `yaml:"product_name"`
	Quantity      int    `yaml:"quantity"`
	Price         string `yaml:"price"`
	Size          string `yaml:"size"`
	Customization string `yaml:"customization"`
}

type trackingDoc struct {
	Carrier           string `yaml:"carrier"`
	TrackingNumber    string `yaml:"tracking_number"`
	URL               string `yaml:"url"`
	LastUpdate        string `yaml:"last_update"`
	EstimatedDelivery string `yaml:"estimated_delivery"`
}

type addressDoc struct {
	Name    string `yaml:"name"`
	Company string `yaml:"company"`
	Street  string `yaml:"street"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Zip     string `yaml:"zip"`
	Phone   string `yaml:"phone"`
}

type historyDoc struct {
	Status    string `yaml:"status"`
	Timestamp string `yaml:"timestamp"`
	Note      string `yaml:"note"`
}

// Products returns the embedded product fixtures
func Products() ([]models.Product, error) {
	return DecodeProducts(productsYAML)
}

// Orders returns the embedded order fixtures
func Orders() ([]models.Order, error) {
	return DecodeOrders(ordersYAML)
}

// DecodeProducts parses a products document
func DecodeProducts(data []byte) ([]models.Product, error) {
	var doc productsDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		price, err := parseMoney(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %s: negative price %s", p.ID, p.Price)
		}

		products = append(products, models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       price,
			Description: p.Description,
			Image:       p.Image,
			InStock:     p.InStock,
			Features:    p.Features,
			Sizes:       p.Sizes,
		})
	}

	return products, nil
}

// DecodeOrders parses an orders document
func DecodeOrders(data []byte) ([]models.Order, error) {
	var doc ordersDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(doc.Orders))
	for _, d := range doc.Orders {
		order, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", d.ID, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (d orderDoc) toModel() (models.Order, error) {
	st, err := status.Parse(d.Status)
	if err != nil {
		return models.Order{}, err
	}

	placed, err := parseTime(d.PlacedDate)
	if err != nil {
		return models.Order{}, fmt.Errorf("placed_date: %w", err)
	}

	order := models.Order{
		ID:            d.ID,
		OrderNumber:   d.OrderNumber,
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		PlacedDate:    placed,
		Status:        st,
		Notes:         d.Notes,
		ShippingAddress: models.ShippingAddress{
			Name:    d.ShippingAddress.Name,
			Company: d.ShippingAddress.Company,
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			State:   d.ShippingAddress.State,
			Zip:     d.ShippingAddress.Zip,
			Phone:   d.ShippingAddress.Phone,
		},
	}

	amounts := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"subtotal", d.Subtotal, &order.Subtotal},
		{"tax", d.Tax, &order.Tax},
		{"shipping", d.Shipping, &order.Shipping},
		{"total", d.Total, &order.Total},
	}
	for _, a := range amounts {
		v, err := parseMoney(a.raw)
		if err != nil {
			return models.Order{}, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dst = v
	}

	if d.EstimatedDelivery != "" && d.EstimatedDelivery != DeliveryUnknown {
		eta, err := parseTime(d.EstimatedDelivery)
		if err != nil {
			return models.Order{}, fmt.Errorf("estimated_delivery: %w", err)
		}
		order.EstimatedDelivery = &eta
	}

	for _, it := range d.Items {
		price, err := parseMoney(it.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("item %s: %w", it.ProductID, err)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			Price:         price,
			Size:          it.Size,
			Customization: it.Customization,
		})
	}

	for _, tr := range d.Tracking {
		eta, err := parseTime(tr.EstimatedDelivery)
		if err != nil {
			return models.Order{}, fmt.Errorf("tracking %s: %w", tr.TrackingNumber, err)
		}
		order.Tracking = append(order.Tracking, models.TrackingInfo{
			Carrier:           tr.Carrier,
			TrackingNumber:    tr.TrackingNumber,
			URL:               tr.URL,
			LastUpdate:        tr.LastUpdate,
			EstimatedDelivery: eta,
		})
	}

	for _, h := range d.StatusHistory {
		hs, err := status.Parse(h.Status)
		if err != nil {
			return models.Order{}, fmt.Errorf("status_history: %w", err)
		}
		ts, err := parseTime(h.Timestamp)
		if err != nil {
			return models.Order{}, fmt.Errorf("status_history: %w", err)
		}
		order.StatusHistory = append(order.StatusHistory, models.StatusUpdate{
			Status:    hs,
			Timestamp: ts,
			Note:      h.Note,
		})
	}

	return order, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return v, nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t, nil
}

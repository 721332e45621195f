package checkout

import (
	"time"

	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingDetails is the transient checkout form state, seeded from the
// stored profile and discarded after submission.
type ShippingDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Contact is the customer block of the order payload.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem is one purchased product in the order payload, derived 1:1 from a
// validated CartItem.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderPayload is the normalized request body for order creation. The
// idempotency key travels in the Idempotency-Key header, not the body.
type OrderPayload struct {
	User          Contact             `json:"user"`
	Products      []LineItem          `json:"products"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        enums.OrderStatus   `json:"status"`
	OrderDate     time.Time           `json:"orderDate"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	IdempotencyKey string             `json:"-"`
}

// PlacedOrder is the server's acknowledgment of an accepted order.
type PlacedOrder struct {
	ID            string              `json:"id"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        enums.OrderStatus   `json:"status"`
	OrderDate     time.Time           `json:"orderDate"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
}

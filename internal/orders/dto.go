package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is the order creation wire payload.
type OrderRequest struct {
	User        ContactInput    `json:"user" validate:"required"`
	Products    []LineItemInput `json:"products" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status" validate:"required"`
	OrderDate   time.Time       `json:"orderDate" validate:"required"`

	PaymentMethod string `json:"paymentMethod" validate:"required"`
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// ContactInput is the customer contact block of an order request.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// LineItemInput is one purchased product in an order request.
type LineItemInput struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
}

// Subtotal returns price * quantity for the line.
func (l LineItemInput) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

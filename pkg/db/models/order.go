package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a persisted, accepted order. The customer contact block is a
// snapshot of the shipping details submitted at checkout, not a user FK.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerName    string              `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail   string              `gorm:"column:customer_email;not null" json:"customerEmail"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null" json:"customerPhone"`
	CustomerAddress string              `gorm:"column:customer_address;not null" json:"customerAddress"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status          enums.OrderStatus   `gorm:"column:status;not null" json:"status"`
	OrderDate       time.Time           `gorm:"column:order_date;not null" json:"orderDate"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null" json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null" json:"paymentStatus"`
	IdempotencyKey  string              `gorm:"column:idempotency_key;uniqueIndex;not null" json:"-"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID" json:"products"`
	CreatedAt       time.Time           `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName pins the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line. ProductID is the catalog identifier the
// client submitted; the row keeps its own copy of name and price so order
// history survives catalog edits.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"-"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	ProductID string          `gorm:"column:product_id;not null" json:"productId"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
}

// TableName pins the table name.
func (OrderItem) TableName() string {
	return "order_items"
}

package products

import "github.com/shopspring/decimal"

// CreateProductRequest is the admin catalog creation payload.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Images      []string        `json:"images" validate:"omitempty,dive,url"`
}

// UpdateStockRequest adjusts a listing's available stock.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

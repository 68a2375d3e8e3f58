package types

import (
	"errors"
	"time"
)

// Entity validation errors.
var (
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
	ErrInvalidData  = errors.New("invalid entity data")
)

// Product is a stocked item.
type Product struct {
	ProductID    string    `json:"product_id"` // UUID v7, generated on creation.
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	SellingPrice float64   `json:"selling_price"`
	BuyingPrice  float64   `json:"buying_price"`
	Stock        int       `json:"stock"`
	Barcode      string    `json:"barcode,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks product fields before persistence.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.SellingPrice < 0 || p.BuyingPrice < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

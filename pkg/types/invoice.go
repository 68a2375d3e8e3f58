package types

import "time"

// Payment methods recorded on invoices.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCredit = "credit"
)

// Invoice is a completed sale. Items are loaded alongside the invoice and
// reference the product they were sold from; the product name and price are
// denormalized so an invoice survives product edits.
type Invoice struct {
	InvoiceID     string        `json:"invoice_id"` // UUID v7, generated on creation.
	IssuedAt      time.Time     `json:"issued_at"`
	PaymentMethod string        `json:"payment_method"`
	TotalAmount   float64       `json:"total_amount"`
	Discount      float64       `json:"discount"`
	Cashier       string        `json:"cashier,omitempty"`
	Items         []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ItemID      string  `json:"item_id"`
	InvoiceID   string  `json:"invoice_id"`
	ProductID   string  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Validate checks invoice fields before persistence.
func (inv *Invoice) Validate() error {
	if inv.PaymentMethod == "" {
		return ErrInvalidData
	}
	if inv.TotalAmount < 0 || inv.Discount < 0 {
		return ErrInvalidPrice
	}
	for _, item := range inv.Items {
		if item.ProductName == "" {
			return ErrInvalidName
		}
		if item.Quantity <= 0 {
			return ErrInvalidData
		}
	}
	return nil
}

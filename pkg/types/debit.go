package types

import (
	"errors"
	"time"
)

// Debit statuses. A debit progresses unpaid → partial → paid as payments
// are recorded against it.
const (
	DebitUnpaid  = "unpaid"
	DebitPartial = "partial"
	DebitPaid    = "paid"
)

// validDebitStatuses is the set of recognized debit status values.
var validDebitStatuses = map[string]bool{
	DebitUnpaid:  true,
	DebitPartial: true,
	DebitPaid:    true,
}

// ErrInvalidStatus is returned for an unrecognized debit status.
var ErrInvalidStatus = errors.New("invalid status value")

// Debit is an outstanding customer balance tied to an invoice.
type Debit struct {
	DebitID    string    `json:"debit_id"` // UUID v7, generated on creation.
	Name       string    `json:"name"`     // Customer name (required).
	Phone      string    `json:"phone,omitempty"`
	InvoiceID  string    `json:"invoice_id"`
	Amount     float64   `json:"amount"`
	AmountPaid float64   `json:"amount_paid"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks debit fields before persistence.
func (d *Debit) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.Amount < 0 || d.AmountPaid < 0 {
		return ErrInvalidPrice
	}
	if d.Status != "" && !validDebitStatuses[d.Status] {
		return ErrInvalidStatus
	}
	return nil
}

// RecordPayment applies a payment to the debit and advances its status.
// Returns ErrInvalidPrice for a non-positive amount. Overpayment is capped
// at the debit amount.
func (d *Debit) RecordPayment(amount float64) error {
	if amount <= 0 {
		return ErrInvalidPrice
	}
	d.AmountPaid += amount
	if d.AmountPaid >= d.Amount {
		d.AmountPaid = d.Amount
		d.Status = DebitPaid
	} else {
		d.Status = DebitPartial
	}
	d.UpdatedAt = time.Now()
	return nil
}

// Outstanding returns the unpaid remainder.
func (d *Debit) Outstanding() float64 {
	return d.Amount - d.AmountPaid
}

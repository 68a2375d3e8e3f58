package types

// Standard table names in the backing store. Cache invalidation is keyed by
// these names: a write to a table invalidates every cached page whose
// statement references it.
const (
	TableProducts     = "products"
	TableInvoices     = "invoices"
	TableInvoiceItems = "invoice_items"
	TableDebits       = "debits"
	TablePayments     = "payments"
)

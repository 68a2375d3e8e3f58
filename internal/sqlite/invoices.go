package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dukaforge/stockroom/pkg/types"
)

const invoiceColumns = "invoice_id, issued_at, payment_method, total_amount, discount, cashier"

// invoiceItemsPageSize bounds each item fetch in GetInvoice; the loop there
// keeps paging until every line is loaded.
const invoiceItemsPageSize = 100

// InvoiceFilter narrows ListInvoicesPage. Zero values match everything.
type InvoiceFilter struct {
	From          time.Time // inclusive lower bound on issued_at
	To            time.Time // exclusive upper bound on issued_at
	PaymentMethod string
}

// ListInvoicesPage returns one page of invoices, newest first, together with
// the hydrated entities. Items are not loaded; use GetInvoice for lines.
func (s *Store) ListInvoicesPage(ctx context.Context, filter InvoiceFilter, page, pageSize int) (types.PagedResult, []*types.Invoice, error) {
	statement := "SELECT " + invoiceColumns + " FROM invoices"
	var params []any
	var where []string

	if !filter.From.IsZero() {
		where = append(where, "issued_at >= ?")
		params = append(params, filter.From.UTC().Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		where = append(where, "issued_at < ?")
		params = append(params, filter.To.UTC().Format(time.RFC3339))
	}
	if filter.PaymentMethod != "" {
		where = append(where, "payment_method = ?")
		params = append(params, filter.PaymentMethod)
	}
	statement += whereClause(where) + " ORDER BY issued_at DESC"

	result, err := s.QueryPage(ctx, statement, params, page, pageSize)
	if err != nil {
		return types.PagedResult{}, nil, err
	}

	invoices := make([]*types.Invoice, len(result.Rows))
	for i, row := range result.Rows {
		invoices[i] = invoiceFromRow(row)
	}
	return result, invoices, nil
}

// GetInvoice retrieves one invoice with all of its items.
func (s *Store) GetInvoice(ctx context.Context, id string) (*types.Invoice, error) {
	result, err := s.QueryPage(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE invoice_id = ?",
		[]any{id}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, types.ErrNotFound
	}
	invoice := invoiceFromRow(result.Rows[0])

	for page := 1; ; page++ {
		items, err := s.QueryPage(ctx,
			"SELECT item_id, invoice_id, product_id, product_name, price, quantity FROM invoice_items WHERE invoice_id = ? ORDER BY item_id",
			[]any{id}, page, invoiceItemsPageSize)
		if err != nil {
			return nil, err
		}
		for _, row := range items.Rows {
			invoice.Items = append(invoice.Items, types.InvoiceItem{
				ItemID:      rowString(row, "item_id"),
				InvoiceID:   rowString(row, "invoice_id"),
				ProductID:   rowString(row, "product_id"),
				ProductName: rowString(row, "product_name"),
				Price:       rowFloat(row, "price"),
				Quantity:    rowInt(row, "quantity"),
			})
		}
		if !items.HasNext() {
			break
		}
	}
	return invoice, nil
}

// SaveInvoice creates an invoice with its items in one transaction and
// decrements stock for every line that references a product. Returns the
// invoice ID. The write invalidates cached pages for invoices,
// invoice_items, and products.
func (s *Store) SaveInvoice(ctx context.Context, inv *types.Invoice) (string, error) {
	if err := inv.Validate(); err != nil {
		return "", err
	}

	s.mu.RLock()
	if !s.attached {
		s.mu.RUnlock()
		return "", types.ErrStoreDetached
	}
	pool, resultCache := s.pool, s.cache
	s.mu.RUnlock()

	if inv.InvoiceID == "" {
		inv.InvoiceID = generateID()
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now().UTC()
	}

	lease, err := s.acquire(ctx, pool)
	if err != nil {
		return "", err
	}
	defer pool.Release(lease)

	tx, err := lease.Conn().BeginTx(ctx, nil)
	if err != nil {
		return "", &types.QueryError{Statement: "BEGIN", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO invoices ("+invoiceColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		inv.InvoiceID, inv.IssuedAt.UTC().Format(time.RFC3339),
		inv.PaymentMethod, inv.TotalAmount, inv.Discount, inv.Cashier)
	if err != nil {
		return "", &types.QueryError{Statement: "INSERT INTO invoices", Err: err}
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ItemID == "" {
			item.ItemID = generateID()
		}
		item.InvoiceID = inv.InvoiceID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO invoice_items (item_id, invoice_id, product_id, product_name, price, quantity) VALUES (?, ?, ?, ?, ?, ?)",
			item.ItemID, item.InvoiceID, nullable(item.ProductID), item.ProductName, item.Price, item.Quantity)
		if err != nil {
			return "", &types.QueryError{Statement: "INSERT INTO invoice_items", Err: err}
		}

		if item.ProductID != "" {
			_, err = tx.ExecContext(ctx,
				"UPDATE products SET stock = stock - ?, updated_at = ? WHERE product_id = ?",
				item.Quantity, time.Now().UTC().Format(time.RFC3339), item.ProductID)
			if err != nil {
				return "", &types.QueryError{Statement: "UPDATE products", Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", &types.QueryError{Statement: "COMMIT", Err: err}
	}

	resultCache.Invalidate(types.TableInvoices)
	resultCache.Invalidate(types.TableInvoiceItems)
	resultCache.Invalidate(types.TableProducts)
	return inv.InvoiceID, nil
}

// invoiceFromRow hydrates one result row into an Invoice without items.
func invoiceFromRow(r types.Row) *types.Invoice {
	return &types.Invoice{
		InvoiceID:     rowString(r, "invoice_id"),
		IssuedAt:      rowTime(r, "issued_at"),
		PaymentMethod: rowString(r, "payment_method"),
		TotalAmount:   rowFloat(r, "total_amount"),
		Discount:      rowFloat(r, "discount"),
		Cashier:       rowString(r, "cashier"),
	}
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// DailyTotal sums invoice amounts for the day containing t.
func (s *Store) DailyTotal(ctx context.Context, t time.Time) (float64, error) {
	day := t.UTC().Truncate(24 * time.Hour)
	result, err := s.QueryPage(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) AS total FROM invoices WHERE issued_at >= ? AND issued_at < ?",
		[]any{day.Format(time.RFC3339), day.Add(24 * time.Hour).Format(time.RFC3339)}, 1, 1)
	if err != nil {
		return 0, err
	}
	if len(result.Rows) == 0 {
		return 0, fmt.Errorf("%w: empty aggregate", types.ErrQueryFailed)
	}
	return rowFloat(result.Rows[0], "total"), nil
}

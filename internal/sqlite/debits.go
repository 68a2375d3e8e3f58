package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dukaforge/stockroom/pkg/types"
)

const debitColumns = "debit_id, name, phone, invoice_id, amount, amount_paid, status, notes, created_at, updated_at"

// DebitFilter narrows ListDebitsPage. Zero values match everything.
type DebitFilter struct {
	Status string // exact status match
	Search string // substring match on customer name or phone
}

// ListDebitsPage returns one page of debits, newest first, together with
// the hydrated entities.
func (s *Store) ListDebitsPage(ctx context.Context, filter DebitFilter, page, pageSize int) (types.PagedResult, []*types.Debit, error) {
	statement := "SELECT " + debitColumns + " FROM debits"
	var params []any
	var where []string

	if filter.Status != "" {
		where = append(where, "status = ?")
		params = append(params, filter.Status)
	}
	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR phone LIKE ?)")
		like := "%" + filter.Search + "%"
		params = append(params, like, like)
	}
	statement += whereClause(where) + " ORDER BY created_at DESC"

	result, err := s.QueryPage(ctx, statement, params, page, pageSize)
	if err != nil {
		return types.PagedResult{}, nil, err
	}

	debits := make([]*types.Debit, len(result.Rows))
	for i, row := range result.Rows {
		debits[i] = debitFromRow(row)
	}
	return result, debits, nil
}

// GetDebit retrieves one debit by ID.
func (s *Store) GetDebit(ctx context.Context, id string) (*types.Debit, error) {
	result, err := s.QueryPage(ctx,
		"SELECT "+debitColumns+" FROM debits WHERE debit_id = ?",
		[]any{id}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, types.ErrNotFound
	}
	return debitFromRow(result.Rows[0]), nil
}

// SaveDebit creates or updates a debit and returns its ID. A new debit with
// no status starts unpaid.
func (s *Store) SaveDebit(ctx context.Context, d *types.Debit) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if d.DebitID == "" {
		d.DebitID = generateID()
		d.CreatedAt = now
	}
	if d.Status == "" {
		d.Status = types.DebitUnpaid
	}
	d.UpdatedAt = now

	_, err := s.Exec(ctx,
		`INSERT INTO debits (`+debitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(debit_id) DO UPDATE SET
		     name = excluded.name,
		     phone = excluded.phone,
		     invoice_id = excluded.invoice_id,
		     amount = excluded.amount,
		     amount_paid = excluded.amount_paid,
		     status = excluded.status,
		     notes = excluded.notes,
		     updated_at = excluded.updated_at`,
		d.DebitID, d.Name, d.Phone, nullable(d.InvoiceID), d.Amount,
		d.AmountPaid, d.Status, d.Notes,
		d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("saving debit: %w", err)
	}
	return d.DebitID, nil
}

// RecordPayment applies a payment against a debit in one transaction:
// a payments row is inserted and the debit's paid amount and status advance.
// The write invalidates cached pages for debits and payments.
func (s *Store) RecordPayment(ctx context.Context, debitID string, amount float64, method, notes string) error {
	debit, err := s.GetDebit(ctx, debitID)
	if err != nil {
		return err
	}
	if err := debit.RecordPayment(amount); err != nil {
		return err
	}

	s.mu.RLock()
	if !s.attached {
		s.mu.RUnlock()
		return types.ErrStoreDetached
	}
	pool, resultCache := s.pool, s.cache
	s.mu.RUnlock()

	lease, err := s.acquire(ctx, pool)
	if err != nil {
		return err
	}
	defer pool.Release(lease)

	tx, err := lease.Conn().BeginTx(ctx, nil)
	if err != nil {
		return &types.QueryError{Statement: "BEGIN", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (payment_id, debit_id, amount, payment_method, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		generateID(), debitID, amount, method, notes,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return &types.QueryError{Statement: "INSERT INTO payments", Err: err}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE debits SET amount_paid = ?, status = ?, updated_at = ? WHERE debit_id = ?",
		debit.AmountPaid, debit.Status,
		debit.UpdatedAt.UTC().Format(time.RFC3339), debitID)
	if err != nil {
		return &types.QueryError{Statement: "UPDATE debits", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &types.QueryError{Statement: "COMMIT", Err: err}
	}

	resultCache.Invalidate(types.TableDebits)
	resultCache.Invalidate(types.TablePayments)
	return nil
}

// debitFromRow hydrates one result row into a Debit.
func debitFromRow(r types.Row) *types.Debit {
	return &types.Debit{
		DebitID:    rowString(r, "debit_id"),
		Name:       rowString(r, "name"),
		Phone:      rowString(r, "phone"),
		InvoiceID:  rowString(r, "invoice_id"),
		Amount:     rowFloat(r, "amount"),
		AmountPaid: rowFloat(r, "amount_paid"),
		Status:     rowString(r, "status"),
		Notes:      rowString(r, "notes"),
		CreatedAt:  rowTime(r, "created_at"),
		UpdatedAt:  rowTime(r, "updated_at"),
	}
}

package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/stockroom/pkg/types"
)

func TestSaveAndGetDebit(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveDebit(ctx, &types.Debit{
		Name:   "Sami",
		Phone:  "0791234567",
		Amount: 120,
	})
	require.NoError(t, err)

	got, err := s.GetDebit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sami", got.Name)
	assert.Equal(t, types.DebitUnpaid, got.Status, "new debit starts unpaid")
	assert.Equal(t, 120.0, got.Outstanding())
}

func TestRecordPaymentAdvancesStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveDebit(ctx, &types.Debit{Name: "Sami", Amount: 100})
	require.NoError(t, err)

	require.NoError(t, s.RecordPayment(ctx, id, 40, types.PaymentCash, ""))

	got, err := s.GetDebit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.DebitPartial, got.Status)
	assert.Equal(t, 40.0, got.AmountPaid)

	require.NoError(t, s.RecordPayment(ctx, id, 60, types.PaymentCash, "settled"))

	got, err = s.GetDebit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.DebitPaid, got.Status)
	assert.Equal(t, 0.0, got.Outstanding())

	// The payment rows are on record.
	payments, err := s.QueryPage(ctx,
		"SELECT * FROM payments WHERE debit_id = ?", []any{id}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, payments.TotalCount)
}

func TestRecordPaymentRejectsBadInput(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.RecordPayment(ctx, "missing", 10, types.PaymentCash, "")
	assert.ErrorIs(t, err, types.ErrNotFound)

	id, err := s.SaveDebit(ctx, &types.Debit{Name: "Sami", Amount: 100})
	require.NoError(t, err)

	err = s.RecordPayment(ctx, id, -5, types.PaymentCash, "")
	assert.ErrorIs(t, err, types.ErrInvalidPrice)
}

func TestListDebitsPageFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	ids := make([]string, 3)
	for i, d := range []types.Debit{
		{Name: "Sami", Phone: "079", Amount: 100},
		{Name: "Lina", Phone: "078", Amount: 50},
		{Name: "Omar", Phone: "077", Amount: 75},
	} {
		d := d
		id, err := s.SaveDebit(ctx, &d)
		require.NoError(t, err)
		ids[i] = id
	}
	require.NoError(t, s.RecordPayment(ctx, ids[1], 50, types.PaymentCash, ""))

	result, debits, err := s.ListDebitsPage(ctx, DebitFilter{Status: types.DebitUnpaid}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, debits, 2)

	result, debits, err = s.ListDebitsPage(ctx, DebitFilter{Search: "Om"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "Omar", debits[0].Name)
}

package feature

import (
	"errors"
	"testing"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveColumnOrder(t *testing.T) {
	tx := entity.Transaction{
		Amount:          50000,
		Timestamp:       "2024-01-01T03:00:00",
		Type:            entity.TxTypeTransfer,
		ReceiverAccount: 123,
		SenderAccount:   456,
	}

	x, err := Derive(tx, LegacyEncoder())
	require.NoError(t, err)
	assert.Equal(t, []float64{50000, 3, 1, 123, 456}, x)
	assert.Len(t, Columns, Width)
}

func TestDeriveTypeEncoding(t *testing.T) {
	base := entity.Transaction{Amount: 10, Timestamp: "2024-01-01T00:00:00", ReceiverAccount: 1, SenderAccount: entity.UnknownSender}

	for typ, want := range map[entity.TxType]float64{
		entity.TxTypeDeposit:  0,
		entity.TxTypeTransfer: 1,
		"CASH_OUT":            0,
	} {
		tx := base
		tx.Type = typ
		x, err := Derive(tx, LegacyEncoder())
		require.NoError(t, err)
		assert.Equal(t, want, x[IdxType], string(typ))
		assert.Equal(t, float64(-1), x[IdxSender])
	}
}

func TestDeriveInvalidTimestamp(t *testing.T) {
	_, err := Derive(entity.Transaction{Timestamp: "not a date"}, LegacyEncoder())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))
}

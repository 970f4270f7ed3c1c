package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStock(t *testing.T) {
	tests := []struct {
		name        string
		txType      TransactionType
		stockBefore float64
		quantity    float64
		want        float64
		wantErr     error
	}{
		{"stock_in adds", TxStockIn, 100, 30, 130, nil},
		{"stock_in from zero", TxStockIn, 0, 12.5, 12.5, nil},
		{"stock_out subtracts", TxStockOut, 100, 30, 70, nil},
		{"stock_out exact drain", TxStockOut, 50, 50, 0, nil},
		{"stock_out insufficient", TxStockOut, 70, 80, 70, ErrInsufficientStock},
		{"adjustment sets absolute level", TxAdjustment, 70, 50, 50, nil},
		{"adjustment up", TxAdjustment, 10, 500, 500, nil},
		{"unknown type rejected", TransactionType("transfer"), 100, 10, 100, ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStock(tt.txType, tt.stockBefore, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStockSequence(t *testing.T) {
	// Product starts at 100. stock_out 30 -> 70, stock_out 80 fails and
	// leaves 70, adjustment 50 -> 50.
	stock := 100.0

	stock, err := NextStock(TxStockOut, stock, 30)
	require.NoError(t, err)
	assert.Equal(t, 70.0, stock)

	_, err = NextStock(TxStockOut, stock, 80)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 70.0, stock)

	stock, err = NextStock(TxAdjustment, stock, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stock)
}

func TestTotalValue(t *testing.T) {
	price := 12.0

	t.Run("explicit price wins", func(t *testing.T) {
		unit, total := TotalValue(&price, 5.50, 10)
		assert.Equal(t, 12.0, unit)
		assert.Equal(t, 120.0, total)
	})

	t.Run("defaults to cost price", func(t *testing.T) {
		unit, total := TotalValue(nil, 5.50, 10)
		assert.Equal(t, 5.50, unit)
		assert.Equal(t, 55.0, total)
	})
}

func TestReplayStock(t *testing.T) {
	ledger := []Transaction{
		{Type: TxStockIn, Quantity: 100},
		{Type: TxStockOut, Quantity: 30},
		{Type: TxAdjustment, Quantity: 50},
		{Type: TxStockIn, Quantity: 25},
	}

	final, err := ReplayStock(0, ledger)
	require.NoError(t, err)
	assert.Equal(t, 75.0, final)
}

func TestReplayStockChainsSnapshots(t *testing.T) {
	// Each entry's stock_before must equal the previous entry's
	// stock_after when folding from the initial level.
	ledger := []Transaction{
		{Type: TxStockIn, Quantity: 40, StockBefore: 0, StockAfter: 40},
		{Type: TxStockOut, Quantity: 15, StockBefore: 40, StockAfter: 25},
		{Type: TxStockIn, Quantity: 10, StockBefore: 25, StockAfter: 35},
	}

	stock := 0.0
	for _, entry := range ledger {
		assert.Equal(t, entry.StockBefore, stock)
		next, err := NextStock(entry.Type, stock, entry.Quantity)
		require.NoError(t, err)
		assert.Equal(t, entry.StockAfter, next)
		stock = next
	}

	final, err := ReplayStock(0, ledger)
	require.NoError(t, err)
	assert.Equal(t, ledger[len(ledger)-1].StockAfter, final)
}

func TestReplayStockStopsOnInsufficient(t *testing.T) {
	ledger := []Transaction{
		{Type: TxStockIn, Quantity: 10},
		{Type: TxStockOut, Quantity: 25},
	}

	_, err := ReplayStock(0, ledger)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

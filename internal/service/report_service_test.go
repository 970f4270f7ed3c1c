package service

import (
	"testing"
	"time"

	"go-ricemill-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productWith(name, category string, stock, cost, sell float64) model.Product {
	p := model.Product{
		Name:         name,
		Category:     category,
		CurrentStock: stock,
		CostPrice:    cost,
		SellingPrice: sell,
		IsActive:     true,
	}
	p.ID = uuid.New()
	return p
}

func TestBuildDashboard(t *testing.T) {
	products := []model.Product{
		productWith("Basmati Premium", model.CategoryBasmati, 100, 5, 8),
		productWith("Jasmine Select", model.CategoryJasmine, 10, 4, 6),
	}
	products[1].MinStockLevel = 20 // low stock

	transactions := []model.Transaction{
		{Type: model.TxStockIn, Quantity: 40},
		{Type: model.TxStockOut, Quantity: 15},
		{Type: model.TxAdjustment, Quantity: 100},
	}
	withdrawals := []model.CashWithdrawal{
		{Amount: 250.50},
		{Amount: 100},
	}

	report := buildDashboard(products, transactions, withdrawals)

	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 540.0, report.TotalStockValue) // 100*5 + 10*4
	assert.Equal(t, 110.0, report.TotalStockQuantity)
	assert.Equal(t, 1, report.LowStockCount)
	require.Len(t, report.LowStockProducts, 1)
	assert.Equal(t, "Jasmine Select", report.LowStockProducts[0].Name)

	assert.Equal(t, 40.0, report.RecentActivity.StockIn)
	assert.Equal(t, 15.0, report.RecentActivity.StockOut)
	assert.Equal(t, 3, report.RecentActivity.Transactions)
	assert.Equal(t, 2, report.RecentActivity.CashWithdrawals)
	assert.Equal(t, 350.50, report.RecentActivity.TotalWithdrawn)
}

func TestBuildMovement(t *testing.T) {
	product := productWith("Basmati Premium", model.CategoryBasmati, 100, 5, 8)

	mk := func(txType model.TransactionType, qty float64) model.Transaction {
		tx := model.Transaction{
			ProductID: product.ID,
			Product:   product,
			Type:      txType,
			Quantity:  qty,
		}
		tx.ID = uuid.New()
		return tx
	}

	movements := buildMovement([]model.Transaction{
		mk(model.TxStockIn, 40),
		mk(model.TxStockIn, 10),
		mk(model.TxStockOut, 25),
		mk(model.TxAdjustment, 60),
	})

	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, "Basmati Premium", m.Product.Name)
	assert.Equal(t, 50.0, m.StockIn)
	assert.Equal(t, 25.0, m.StockOut)
	assert.Equal(t, 1, m.Adjustments)
	assert.Len(t, m.Transactions, 4)
}

func TestProfitLineFor(t *testing.T) {
	product := productWith("Basmati Premium", model.CategoryBasmati, 100, 5, 8)

	t.Run("uses transaction price", func(t *testing.T) {
		tx := model.Transaction{
			Product:    product,
			Type:       model.TxStockOut,
			Quantity:   10,
			Price:      10,
			TotalValue: 100,
		}

		line := ProfitLineFor(tx)
		assert.Equal(t, 100.0, line.Revenue)
		assert.Equal(t, 50.0, line.Profit) // (10-5)*10
		assert.Equal(t, 50.0, line.ProfitMargin)
	})

	t.Run("falls back to product selling price", func(t *testing.T) {
		tx := model.Transaction{
			Product:  product,
			Type:     model.TxStockOut,
			Quantity: 10,
		}

		line := ProfitLineFor(tx)
		assert.Equal(t, 80.0, line.Revenue)  // 8*10
		assert.Equal(t, 30.0, line.Profit)   // (8-5)*10
		assert.Equal(t, 37.5, line.ProfitMargin)
	})

	t.Run("zero cost price means zero margin", func(t *testing.T) {
		free := productWith("Sample Bag", model.CategoryOther, 10, 0, 5)
		tx := model.Transaction{
			Product:  free,
			Type:     model.TxStockOut,
			Quantity: 2,
			Price:    5,
		}

		line := ProfitLineFor(tx)
		assert.Equal(t, 0.0, line.ProfitMargin)
		assert.Equal(t, 10.0, line.Profit)
	})
}

func TestBuildProfitReport(t *testing.T) {
	product := productWith("Basmati Premium", model.CategoryBasmati, 100, 5, 8)

	transactions := []model.Transaction{
		{Product: product, Type: model.TxStockOut, Quantity: 10, Price: 10, TotalValue: 100},
		{Product: product, Type: model.TxStockOut, Quantity: 5, Price: 8, TotalValue: 40},
	}

	report := buildProfitReport(transactions)

	assert.Equal(t, 140.0, report.Summary.TotalRevenue)
	assert.Equal(t, 65.0, report.Summary.TotalProfit) // 50 + 15
	assert.Equal(t, 2, report.Summary.TransactionCount)
	// margins: 50 and 37.5 -> average 43.75
	assert.Equal(t, 43.75, report.Summary.AverageMargin)
}

func TestBuildBIAnalytics(t *testing.T) {
	basmati := productWith("Basmati Premium", model.CategoryBasmati, 100, 5, 8)
	jasmine := productWith("Jasmine Select", model.CategoryJasmine, 50, 4, 6)

	day := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	mk := func(p model.Product, txType model.TransactionType, qty, total float64, at time.Time) model.Transaction {
		tx := model.Transaction{
			ProductID:  p.ID,
			Product:    p,
			Type:       txType,
			Quantity:   qty,
			TotalValue: total,
		}
		tx.ID = uuid.New()
		tx.CreatedAt = at
		return tx
	}

	report := buildBIAnalytics(
		[]model.Product{basmati, jasmine},
		[]model.Transaction{
			mk(basmati, model.TxStockIn, 100, 500, day),
			mk(basmati, model.TxStockOut, 20, 160, day),
			mk(jasmine, model.TxStockOut, 10, 60, day.AddDate(0, 0, 1)),
		},
	)

	require.Len(t, report.CategoryAnalysis, 2)
	assert.Equal(t, model.CategoryBasmati, report.CategoryAnalysis[0].Category)
	assert.Equal(t, 500.0, report.CategoryAnalysis[0].TotalValue) // 100*5

	require.Len(t, report.TransactionTrends, 2)
	assert.Equal(t, "2026-08-10", report.TransactionTrends[0].Date)
	assert.Equal(t, 100.0, report.TransactionTrends[0].StockIn)
	assert.Equal(t, 160.0, report.TransactionTrends[0].Revenue)
	assert.Equal(t, "2026-08-11", report.TransactionTrends[1].Date)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Basmati Premium", report.TopProducts[0].Name) // highest revenue first
	assert.Equal(t, 160.0, report.TopProducts[0].TotalRevenue)

	assert.Equal(t, 220.0, report.Summary.TotalRevenue)
	assert.Equal(t, 700.0, report.Summary.TotalInventoryValue) // 500 + 200
	assert.Equal(t, 3, report.Summary.TotalTransactions)
}

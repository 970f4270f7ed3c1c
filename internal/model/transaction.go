package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxStockIn    TransactionType = "stock_in"
	TxStockOut   TransactionType = "stock_out"
	TxAdjustment TransactionType = "adjustment"
)

// Transaction is an append-only ledger entry. Rows are written once by the
// stock mutator and never updated; stock_before/stock_after snapshot the
// product's on-hand level around the mutation.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(20);not null;index" json:"type" validate:"required,oneof=stock_in stock_out adjustment"`
	Quantity  float64         `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Unit      string          `gorm:"type:varchar(20);not null" json:"unit"` // copied from product at creation

	Price      float64 `gorm:"not null" json:"price"`       // defaults to product cost price
	TotalValue float64 `gorm:"not null" json:"total_value"` // snapshot, never recomputed

	StockBefore float64 `gorm:"not null" json:"stock_before"`
	StockAfter  float64 `gorm:"not null" json:"stock_after"`

	Reference   string     `gorm:"type:varchar(100)" json:"reference"`
	BatchNumber string     `gorm:"type:varchar(100)" json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Supplier    string     `gorm:"type:varchar(255)" json:"supplier"`
	Customer    string     `gorm:"type:varchar(255)" json:"customer"`
	Notes       string     `json:"notes"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// NextStock applies the stock-effect rule for a transaction type.
//
//	stock_in:   before + quantity
//	stock_out:  before - quantity (ErrInsufficientStock when before < quantity)
//	adjustment: quantity is the absolute new level, not a delta
func NextStock(txType TransactionType, stockBefore, quantity float64) (float64, error) {
	switch txType {
	case TxStockIn:
		return stockBefore + quantity, nil
	case TxStockOut:
		if stockBefore < quantity {
			return stockBefore, ErrInsufficientStock
		}
		return stockBefore - quantity, nil
	case TxAdjustment:
		return quantity, nil
	default:
		return stockBefore, ErrInvalidTransactionType
	}
}

// ReplayStock folds the stock-effect rule over a product's ledger in
// creation order. Starting from the product's stock at catalog creation,
// the result must equal the product's current stock; drift indicates the
// ledger and the materialized level have diverged (e.g. after an
// administrative transaction delete).
func ReplayStock(initial float64, ledger []Transaction) (float64, error) {
	stock := initial
	for _, t := range ledger {
		next, err := NextStock(t.Type, stock, t.Quantity)
		if err != nil {
			return stock, err
		}
		stock = next
	}
	return stock, nil
}

// TotalValue derives the monetary snapshot stored on the ledger row. An
// explicit price wins; otherwise the product's current cost price is used.
func TotalValue(price *float64, costPrice, quantity float64) (unitPrice, total float64) {
	if price != nil {
		return *price, *price * quantity
	}
	return costPrice, costPrice * quantity
}

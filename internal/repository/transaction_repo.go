package repository

import (
	"errors"
	"time"

	"go-ricemill-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows FindAll. Limit defaults to 100 when zero.
type TransactionFilter struct {
	ProductID *uuid.UUID
	Type      model.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

type TransactionRepository interface {
	FindAll(filter TransactionFilter) ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByProduct(productID uuid.UUID) ([]model.Transaction, error)
	FindInWindow(startDate, endDate *time.Time) ([]model.Transaction, error)
	Delete(id uuid.UUID) error
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	q := r.db.Preload("Product").Preload("CreatedByUser")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	err := q.Order("created_at DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.Preload("Product").Preload("CreatedByUser").First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// FindByProduct returns the full ledger for one product in creation order,
// oldest first, as needed for stock replay.
func (r *transactionRepo) FindByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

// FindInWindow returns all transactions in a date window with products
// preloaded, for the read-side report projections.
func (r *transactionRepo) FindInWindow(startDate, endDate *time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction

	q := r.db.Preload("Product")
	if startDate != nil {
		q = q.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("created_at <= ?", *endDate)
	}

	err := q.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// Delete is the administrative override. The dependent product stock is
// deliberately NOT recomputed.
func (r *transactionRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrTransactionNotFound
	}
	return nil
}

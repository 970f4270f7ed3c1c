package repository

import (
	"errors"
	"time"

	"go-ricemill-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WithdrawalRepository interface {
	Create(withdrawal *model.CashWithdrawal) error
	FindAll(limit int) ([]model.CashWithdrawal, error)
	FindByID(id uuid.UUID) (*model.CashWithdrawal, error)
	FindInWindow(startDate, endDate *time.Time) ([]model.CashWithdrawal, error)
	Delete(id uuid.UUID) error
}

type withdrawalRepo struct {
	db *gorm.DB
}

func NewWithdrawalRepo(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepo{db}
}

func (r *withdrawalRepo) Create(withdrawal *model.CashWithdrawal) error {
	return r.db.Create(withdrawal).Error
}

func (r *withdrawalRepo) FindAll(limit int) ([]model.CashWithdrawal, error) {
	var withdrawals []model.CashWithdrawal
	if limit <= 0 {
		limit = 100
	}
	err := r.db.Preload("CreatedByUser").Order("created_at DESC").Limit(limit).Find(&withdrawals).Error
	return withdrawals, err
}

func (r *withdrawalRepo) FindByID(id uuid.UUID) (*model.CashWithdrawal, error) {
	var withdrawal model.CashWithdrawal
	if err := r.db.Preload("CreatedByUser").First(&withdrawal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *withdrawalRepo) FindInWindow(startDate, endDate *time.Time) ([]model.CashWithdrawal, error) {
	var withdrawals []model.CashWithdrawal

	q := r.db.Order("created_at DESC")
	if startDate != nil {
		q = q.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("created_at <= ?", *endDate)
	}

	err := q.Find(&withdrawals).Error
	return withdrawals, err
}

func (r *withdrawalRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.CashWithdrawal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrWithdrawalNotFound
	}
	return nil
}

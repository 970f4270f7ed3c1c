package repository

import (
	"go-ricemill-api/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(entry *model.AuditLog) error
	FindRecent(limit int) ([]model.AuditLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(entry *model.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepo) FindRecent(limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if limit <= 0 {
		limit = 100
	}
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

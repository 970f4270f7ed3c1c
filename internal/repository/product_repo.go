package repository

import (
	"errors"

	"go-ricemill-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows FindAll. Zero value lists all active products.
type ProductFilter struct {
	Search   string
	Category string
	LowStock bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Deactivate(id uuid.UUID) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock float64) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product

	q := r.db.Preload("CreatedByUser").Where("is_active = ?", true)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("current_stock <= min_stock_level")
	}

	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("CreatedByUser").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

// Deactivate writes only the is_active column. A whole-row Save here could
// overwrite current_stock with a stale value read before a concurrent
// stock transaction committed.
func (r *productRepo) Deactivate(id uuid.UUID) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// UpdateStock takes *gorm.DB (tx) so it can run inside the mutator's
// database transaction.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock float64) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("current_stock", newStock).Error
}

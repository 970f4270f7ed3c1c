package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rice categories carried on the product catalog.
const (
	CategoryBasmati    = "Basmati"
	CategoryJasmine    = "Jasmine"
	CategoryLongGrain  = "Long Grain"
	CategoryShortGrain = "Short Grain"
	CategoryBrownRice  = "Brown Rice"
	CategoryWildRice   = "Wild Rice"
	CategoryOther      = "Other"
)

// Stock units. Unit is denormalized onto each transaction at creation time
// so history stays accurate even if the product's unit later changes.
const (
	UnitKg   = "kg"
	UnitTon  = "ton"
	UnitBag  = "bag"
	UnitSack = "sack"
)

type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU         *string `gorm:"type:varchar(50);uniqueIndex" json:"sku,omitempty"`
	Category    string  `gorm:"type:varchar(50);not null;default:'Other'" json:"category" validate:"required,oneof=Basmati Jasmine 'Long Grain' 'Short Grain' 'Brown Rice' 'Wild Rice' Other"`
	Description string  `json:"description"`
	Unit        string  `gorm:"type:varchar(20);not null;default:'kg'" json:"unit" validate:"required,oneof=kg ton bag sack"`

	CurrentStock  float64  `gorm:"not null;default:0" json:"current_stock" validate:"gte=0"`
	MinStockLevel float64  `gorm:"not null;default:0" json:"min_stock_level" validate:"gte=0"`
	MaxStockLevel *float64 `json:"max_stock_level,omitempty"`

	CostPrice    float64 `gorm:"not null" json:"cost_price" validate:"gte=0"`
	SellingPrice float64 `gorm:"not null" json:"selling_price" validate:"gte=0"`

	Location    string     `gorm:"type:varchar(100)" json:"location"`
	BatchNumber string     `gorm:"type:varchar(100)" json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Supplier    string     `gorm:"type:varchar(255)" json:"supplier"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

// NormalizeSKU trims and upper-cases an SKU so uniqueness is enforced
// case-insensitively. Empty input stays nil (SKU is optional).
func NormalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(*sku))
	if s == "" {
		return nil
	}
	return &s
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

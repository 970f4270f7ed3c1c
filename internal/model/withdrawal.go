package model

import "github.com/google/uuid"

// CashWithdrawal is a simple append-only record, independent of the stock
// ledger. It exists for the audit trail only; no stock math touches it.
type CashWithdrawal struct {
	BaseModel
	Amount    float64 `gorm:"not null" json:"amount" validate:"required,gt=0"`
	Purpose   string  `gorm:"type:varchar(255);not null" json:"purpose" validate:"required"`
	TakenBy   string  `gorm:"type:varchar(255);not null" json:"taken_by" validate:"required"`
	Reference string  `gorm:"type:varchar(100)" json:"reference"`
	Notes     string  `json:"notes"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

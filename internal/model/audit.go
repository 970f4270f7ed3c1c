package model

import "github.com/google/uuid"

// Audit actions
const (
	ActionLogin                = "LOGIN"
	ActionCreateProduct        = "CREATE_PRODUCT"
	ActionUpdateProduct        = "UPDATE_PRODUCT"
	ActionDeleteProduct        = "DELETE_PRODUCT"
	ActionCreateTransaction    = "CREATE_TRANSACTION"
	ActionDeleteTransaction    = "DELETE_TRANSACTION"
	ActionCreateCashWithdrawal = "CREATE_CASH_WITHDRAWAL"
	ActionDeleteCashWithdrawal = "DELETE_CASH_WITHDRAWAL"
)

// Audit resource types
const (
	ResourceProduct        = "PRODUCT"
	ResourceTransaction    = "TRANSACTION"
	ResourceCashWithdrawal = "CASH_WITHDRAWAL"
	ResourceAuth           = "AUTH"
)

// AuditLog records who did what. Writes are best effort and must never fail
// the primary operation.
type AuditLog struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName     string     `gorm:"type:varchar(255);not null" json:"user_name"`
	Action       string     `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType string     `gorm:"type:varchar(30);not null" json:"resource_type"`
	ResourceID   *uuid.UUID `gorm:"type:uuid" json:"resource_id,omitempty"`
	Details      string     `json:"details"`
}

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/internal/ws"
	"go-ricemill-api/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// TransactionRequest is the boundary contract for the stock mutator.
// Reference, batch number, supplier, customer and notes are passthrough
// metadata copied onto the ledger row as-is.
type TransactionRequest struct {
	Type      model.TransactionType `json:"type" validate:"required,oneof=stock_in stock_out adjustment"`
	ProductID uuid.UUID             `json:"product_id" validate:"uuid_required"`
	Quantity  float64               `json:"quantity" validate:"required,gt=0"`
	Price     *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`

	Reference   string     `json:"reference"`
	BatchNumber string     `json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Supplier    string     `json:"supplier"`
	Customer    string     `json:"customer"`
	Notes       string     `json:"notes"`
}

// LedgerCheck reports whether replaying a product's ledger reproduces its
// materialized stock level. Drift appears after administrative transaction
// deletes, which skip the stock recompute.
type LedgerCheck struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	EntryCount    int       `json:"entry_count"`
	CurrentStock  float64   `json:"current_stock"`
	ReplayedStock float64   `json:"replayed_stock"`
	Consistent    bool      `json:"consistent"`
}

type InventoryService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	RecordTransaction(req *TransactionRequest, actor Actor) (*model.Transaction, error)
	GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	DeleteTransaction(id uuid.UUID, actor Actor) error
	VerifyLedger(productID uuid.UUID) (*LedgerCheck, error)
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditRepository
	db              *gorm.DB
	wsHub           *ws.Hub
	logger          *zap.Logger
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	aRepo repository.AuditRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger *zap.Logger,
) InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		auditRepo:       aRepo,
		db:              db,
		wsHub:           hub,
		logger:          logger,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, actor Actor) error {
	req.SKU = model.NormalizeSKU(req.SKU)

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", errs[0].Message)
	}

	// SKU uniqueness is checked case-insensitively via the normalized value
	if req.SKU != nil {
		existing, _ := s.productRepo.FindBySKU(*req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return model.ErrSKUExists
		}
	}

	req.IsActive = true
	req.CreatedByUserID = &actor.ID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.audit(actor, model.ActionCreateProduct, model.ResourceProduct, &req.ID,
		fmt.Sprintf("created product '%s'", req.Name))
	s.broadcastProduct("product_created", req, actor,
		fmt.Sprintf("%s created product '%s'", actor.Name, req.Name))

	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	var updatedProduct *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", id).Error; err != nil {
			return model.ErrProductNotFound
		}

		// Re-check SKU uniqueness, excluding this row's own prior value
		newSKU := model.NormalizeSKU(req.SKU)
		if newSKU != nil && (existing.SKU == nil || *existing.SKU != *newSKU) {
			other, _ := s.productRepo.FindBySKU(*newSKU)
			if other != nil && other.ID != uuid.Nil && other.ID != existing.ID {
				return model.ErrSKUExists
			}
		}

		// Catalog edits cover every field except current stock, which only
		// the stock mutator may change.
		existing.Name = req.Name
		existing.SKU = newSKU
		existing.Category = req.Category
		existing.Description = req.Description
		existing.Unit = req.Unit
		existing.MinStockLevel = req.MinStockLevel
		existing.MaxStockLevel = req.MaxStockLevel
		existing.CostPrice = req.CostPrice
		existing.SellingPrice = req.SellingPrice
		existing.Location = req.Location
		existing.BatchNumber = req.BatchNumber
		existing.ExpiryDate = req.ExpiryDate
		existing.Supplier = req.Supplier

		if errs := validator.ValidateStruct(&existing); len(errs) > 0 {
			return fmt.Errorf("validation failed: %s", errs[0].Message)
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updatedProduct = &existing
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.audit(actor, model.ActionUpdateProduct, model.ResourceProduct, &updatedProduct.ID,
		fmt.Sprintf("updated product '%s'", updatedProduct.Name))
	s.broadcastProduct("product_updated", updatedProduct, actor,
		fmt.Sprintf("%s updated product '%s'", actor.Name, updatedProduct.Name))

	return updatedProduct, nil
}

// DeleteProduct is a soft delete. Historical transactions keep referencing
// the row; read-side listings filter on is_active instead.
func (s *inventoryService) DeleteProduct(id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return err
	}

	// Column-scoped so a stock transaction committing after the read above
	// is never clobbered by this write.
	if err := s.productRepo.Deactivate(id); err != nil {
		return err
	}

	s.audit(actor, model.ActionDeleteProduct, model.ResourceProduct, &product.ID,
		fmt.Sprintf("deactivated product '%s'", product.Name))

	return nil
}

func (s *inventoryService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

// RecordTransaction is the stock mutator: it computes the next stock level
// from the locked product row, writes the ledger entry and the product's
// current stock inside one database transaction, and returns the persisted
// entry. The row lock serializes concurrent mutations per product; a
// rollback on any failure keeps the two writes atomic.
func (s *inventoryService) RecordTransaction(req *TransactionRequest, actor Actor) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", errs[0].Message)
	}

	var entry model.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", req.ProductID).Error; err != nil {
			return model.ErrProductNotFound
		}

		stockBefore := product.CurrentStock
		stockAfter, err := model.NextStock(req.Type, stockBefore, req.Quantity)
		if err != nil {
			return err
		}

		unitPrice, totalValue := model.TotalValue(req.Price, product.CostPrice, req.Quantity)

		entry = model.Transaction{
			ProductID:       product.ID,
			Type:            req.Type,
			Quantity:        req.Quantity,
			Unit:            product.Unit,
			Price:           unitPrice,
			TotalValue:      totalValue,
			StockBefore:     stockBefore,
			StockAfter:      stockAfter,
			Reference:       req.Reference,
			BatchNumber:     req.BatchNumber,
			ExpiryDate:      req.ExpiryDate,
			Supplier:        req.Supplier,
			Customer:        req.Customer,
			Notes:           req.Notes,
			CreatedByUserID: &actor.ID,
		}

		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return s.productRepo.UpdateStock(tx, product.ID, stockAfter)
	})

	if err != nil {
		return nil, err
	}

	// Re-read with product and creator preloaded for display
	persisted, err := s.transactionRepo.FindByID(entry.ID)
	if err != nil {
		return nil, err
	}

	s.audit(actor, model.ActionCreateTransaction, model.ResourceTransaction, &persisted.ID,
		fmt.Sprintf("%s %.2f %s of '%s'", persisted.Type, persisted.Quantity, persisted.Unit, persisted.Product.Name))
	s.broadcastTransaction(persisted, actor)

	return persisted, nil
}

func (s *inventoryService) GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(filter)
}

func (s *inventoryService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	return s.transactionRepo.FindByID(id)
}

// DeleteTransaction is an administrative override. The dependent product's
// stock is NOT recomputed; the ledger-replay report will show the drift.
func (s *inventoryService) DeleteTransaction(id uuid.UUID, actor Actor) error {
	if err := s.transactionRepo.Delete(id); err != nil {
		return err
	}

	s.audit(actor, model.ActionDeleteTransaction, model.ResourceTransaction, &id,
		"administrative transaction delete, stock left as-is")
	s.logger.Warn("transaction deleted without stock recompute",
		zap.String("transaction_id", id.String()),
		zap.String("actor", actor.Email))

	return nil
}

// VerifyLedger folds the stock-effect rule over the product's full ledger
// in creation order and compares the result against the materialized
// current stock. The fold starts from the first entry's stock_before (the
// product's stock at catalog creation).
func (s *inventoryService) VerifyLedger(productID uuid.UUID) (*LedgerCheck, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.transactionRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	initial := product.CurrentStock
	if len(ledger) > 0 {
		initial = ledger[0].StockBefore
	}

	replayed, err := model.ReplayStock(initial, ledger)
	if err != nil {
		// A failing fold means the recorded entries no longer form a
		// valid sequence; report it as drift rather than an error.
		return &LedgerCheck{
			ProductID:     product.ID,
			ProductName:   product.Name,
			EntryCount:    len(ledger),
			CurrentStock:  product.CurrentStock,
			ReplayedStock: replayed,
			Consistent:    false,
		}, nil
	}

	return &LedgerCheck{
		ProductID:     product.ID,
		ProductName:   product.Name,
		EntryCount:    len(ledger),
		CurrentStock:  product.CurrentStock,
		ReplayedStock: replayed,
		Consistent:    replayed == product.CurrentStock,
	}, nil
}

// audit writes best effort in a goroutine. A failed audit write never fails
// or rolls back the primary operation.
func (s *inventoryService) audit(actor Actor, action, resourceType string, resourceID *uuid.UUID, details string) {
	go func() {
		entry := &model.AuditLog{
			UserID:       actor.ID,
			UserName:     actor.Name,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Details:      details,
		}
		if err := s.auditRepo.Create(entry); err != nil {
			s.logger.Error("audit log write failed", zap.String("action", action), zap.Error(err))
		}
	}()
}

func (s *inventoryService) broadcastProduct(action string, product *model.Product, actor Actor, message string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"product": map[string]interface{}{
				"id":            product.ID,
				"sku":           product.SKU,
				"name":          product.Name,
				"current_stock": product.CurrentStock,
				"selling_price": product.SellingPrice,
			},
			"user": map[string]interface{}{
				"id":    actor.ID,
				"name":  actor.Name,
				"email": actor.Email,
			},
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *inventoryService) broadcastTransaction(entry *model.Transaction, actor Actor) {
	if s.wsHub == nil {
		return
	}
	go func() {
		verb := "received"
		if entry.Type == model.TxStockOut {
			verb = "dispatched"
		} else if entry.Type == model.TxAdjustment {
			verb = "adjusted to"
		}

		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "transaction_created",
			"transaction": map[string]interface{}{
				"id":         entry.ID,
				"type":       entry.Type,
				"quantity":   entry.Quantity,
				"product_id": entry.ProductID,
				"product": map[string]interface{}{
					"name": entry.Product.Name,
					"sku":  entry.Product.SKU,
				},
				"stock_before": entry.StockBefore,
				"stock_after":  entry.StockAfter,
			},
			"user": map[string]interface{}{
				"id":    actor.ID,
				"name":  actor.Name,
				"email": actor.Email,
			},
			"message": fmt.Sprintf("%s %s %.2f %s of '%s'", actor.Name, verb, entry.Quantity, entry.Unit, entry.Product.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

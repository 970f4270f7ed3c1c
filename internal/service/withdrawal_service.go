package service

import (
	"fmt"
	"math"
	"time"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WithdrawalSummaryEntry struct {
	ID      uuid.UUID `json:"id"`
	Amount  float64   `json:"amount"`
	Purpose string    `json:"purpose"`
	TakenBy string    `json:"taken_by"`
	Date    time.Time `json:"date"`
}

type WithdrawalSummary struct {
	TotalAmount float64                  `json:"total_amount"`
	Count       int                      `json:"count"`
	Withdrawals []WithdrawalSummaryEntry `json:"withdrawals"`
}

type WithdrawalService interface {
	Create(req *model.CashWithdrawal, actor Actor) error
	GetAll(limit int) ([]model.CashWithdrawal, error)
	Summary(startDate, endDate *time.Time) (*WithdrawalSummary, error)
	Delete(id uuid.UUID, actor Actor) error
}

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	auditRepo      repository.AuditRepository
	logger         *zap.Logger
}

func NewWithdrawalService(wRepo repository.WithdrawalRepository, aRepo repository.AuditRepository, logger *zap.Logger) WithdrawalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &withdrawalService{
		withdrawalRepo: wRepo,
		auditRepo:      aRepo,
		logger:         logger,
	}
}

func (s *withdrawalService) Create(req *model.CashWithdrawal, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", errs[0].Message)
	}

	req.CreatedByUserID = &actor.ID
	if err := s.withdrawalRepo.Create(req); err != nil {
		return err
	}

	s.audit(actor, model.ActionCreateCashWithdrawal, &req.ID,
		fmt.Sprintf("withdrew %.2f for '%s'", req.Amount, req.Purpose))

	return nil
}

func (s *withdrawalService) GetAll(limit int) ([]model.CashWithdrawal, error) {
	return s.withdrawalRepo.FindAll(limit)
}

func (s *withdrawalService) Summary(startDate, endDate *time.Time) (*WithdrawalSummary, error) {
	withdrawals, err := s.withdrawalRepo.FindInWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := &WithdrawalSummary{Withdrawals: []WithdrawalSummaryEntry{}}
	for _, w := range withdrawals {
		summary.TotalAmount += w.Amount
	}
	summary.TotalAmount = math.Round(summary.TotalAmount*100) / 100
	summary.Count = len(withdrawals)

	// Ten most recent for display
	for i, w := range withdrawals {
		if i >= 10 {
			break
		}
		summary.Withdrawals = append(summary.Withdrawals, WithdrawalSummaryEntry{
			ID:      w.ID,
			Amount:  w.Amount,
			Purpose: w.Purpose,
			TakenBy: w.TakenBy,
			Date:    w.CreatedAt,
		})
	}

	return summary, nil
}

func (s *withdrawalService) Delete(id uuid.UUID, actor Actor) error {
	if err := s.withdrawalRepo.Delete(id); err != nil {
		return err
	}

	s.audit(actor, model.ActionDeleteCashWithdrawal, &id, "deleted cash withdrawal")
	return nil
}

func (s *withdrawalService) audit(actor Actor, action string, resourceID *uuid.UUID, details string) {
	go func() {
		entry := &model.AuditLog{
			UserID:       actor.ID,
			UserName:     actor.Name,
			Action:       action,
			ResourceType: model.ResourceCashWithdrawal,
			ResourceID:   resourceID,
			Details:      details,
		}
		if err := s.auditRepo.Create(entry); err != nil {
			s.logger.Error("audit log write failed", zap.String("action", action), zap.Error(err))
		}
	}()
}

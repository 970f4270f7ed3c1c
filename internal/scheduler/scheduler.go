package scheduler

import (
	"encoding/json"

	"go-ricemill-api/internal/config"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/internal/ws"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic low-stock sweep.
type Scheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
	cfg         config.SweepConfig
	logger      *zap.Logger
}

func NewScheduler(cfg config.SweepConfig, productRepo repository.ProductRepository, hub *ws.Hub, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:        cron.New(),
		productRepo: productRepo,
		wsHub:       hub,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("low-stock sweep disabled")
		return
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.lowStockSweep); err != nil {
		s.logger.Error("failed to schedule low-stock sweep", zap.Error(err))
		return
	}

	s.logger.Info("low-stock sweep scheduled", zap.String("cron", s.cfg.Schedule))
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) lowStockSweep() {
	products, err := s.productRepo.FindAll(repository.ProductFilter{LowStock: true})
	if err != nil {
		s.logger.Error("low-stock sweep failed", zap.Error(err))
		return
	}

	if len(products) == 0 {
		s.logger.Info("low-stock sweep: all products above reorder level")
		return
	}

	digest := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		s.logger.Warn("product at or below reorder level",
			zap.String("product", p.Name),
			zap.Float64("current_stock", p.CurrentStock),
			zap.Float64("min_stock_level", p.MinStockLevel))
		digest = append(digest, map[string]interface{}{
			"id":              p.ID,
			"name":            p.Name,
			"sku":             p.SKU,
			"current_stock":   p.CurrentStock,
			"min_stock_level": p.MinStockLevel,
		})
	}

	if s.wsHub != nil {
		payload := map[string]interface{}{
			"type":     "low_stock_digest",
			"count":    len(digest),
			"products": digest,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}
}

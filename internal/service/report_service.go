package service

import (
	"math"
	"sort"
	"time"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"

	"github.com/google/uuid"
)

// Report shapes. All monetary fields are rounded to 2dp at this edge.

type LowStockProduct struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SKU           *string   `json:"sku,omitempty"`
	CurrentStock  float64   `json:"current_stock"`
	MinStockLevel float64   `json:"min_stock_level"`
}

type DashboardActivity struct {
	StockIn         float64 `json:"stock_in"`
	StockOut        float64 `json:"stock_out"`
	Transactions    int     `json:"transactions"`
	CashWithdrawals int     `json:"cash_withdrawals"`
	TotalWithdrawn  float64 `json:"total_withdrawn"`
}

type DashboardReport struct {
	TotalProducts      int               `json:"total_products"`
	TotalStockValue    float64           `json:"total_stock_value"`
	TotalStockQuantity float64           `json:"total_stock_quantity"`
	LowStockCount      int               `json:"low_stock_count"`
	LowStockProducts   []LowStockProduct `json:"low_stock_products"`
	RecentActivity     DashboardActivity `json:"recent_activity"`
}

type StockValueItem struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	SKU            *string   `json:"sku,omitempty"`
	Category       string    `json:"category"`
	CurrentStock   float64   `json:"current_stock"`
	Unit           string    `json:"unit"`
	CostPrice      float64   `json:"cost_price"`
	SellingPrice   float64   `json:"selling_price"`
	StockValue     float64   `json:"stock_value"`
	PotentialValue float64   `json:"potential_value"`
}

type StockValueReport struct {
	Products []StockValueItem `json:"products"`
	Summary  struct {
		TotalValue          float64 `json:"total_value"`
		TotalPotentialValue float64 `json:"total_potential_value"`
	} `json:"summary"`
}

type MovementEntry struct {
	ID       uuid.UUID             `json:"id"`
	Type     model.TransactionType `json:"type"`
	Quantity float64               `json:"quantity"`
	Date     time.Time             `json:"date"`
}

type ProductMovement struct {
	Product struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		SKU      *string   `json:"sku,omitempty"`
		Category string    `json:"category"`
	} `json:"product"`
	StockIn      float64         `json:"stock_in"`
	StockOut     float64         `json:"stock_out"`
	Adjustments  int             `json:"adjustments"`
	Transactions []MovementEntry `json:"transactions"`
}

type CategoryAnalysis struct {
	Category            string  `json:"category"`
	TotalStock          float64 `json:"total_stock"`
	TotalValue          float64 `json:"total_value"`
	TotalPotentialValue float64 `json:"total_potential_value"`
	ProductCount        int     `json:"product_count"`
}

type TransactionTrend struct {
	Date     string  `json:"date"`
	StockIn  float64 `json:"stock_in"`
	StockOut float64 `json:"stock_out"`
	Revenue  float64 `json:"revenue"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Quantity float64 `json:"quantity"`
}

type ProductPerformance struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	TotalQuantitySold float64   `json:"total_quantity_sold"`
	TotalRevenue      float64   `json:"total_revenue"`
	TransactionCount  int       `json:"transaction_count"`
}

type BIAnalyticsReport struct {
	CategoryAnalysis  []CategoryAnalysis   `json:"category_analysis"`
	TransactionTrends []TransactionTrend   `json:"transaction_trends"`
	CategoryRevenue   []CategoryRevenue    `json:"category_revenue"`
	TopProducts       []ProductPerformance `json:"top_products"`
	Summary           struct {
		TotalProducts       int     `json:"total_products"`
		TotalInventoryValue float64 `json:"total_inventory_value"`
		TotalRevenue        float64 `json:"total_revenue"`
		TotalTransactions   int     `json:"total_transactions"`
	} `json:"summary"`
}

type ProfitLine struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	ProductName   string    `json:"product_name"`
	Category      string    `json:"category"`
	Quantity      float64   `json:"quantity"`
	CostPrice     float64   `json:"cost_price"`
	SellingPrice  float64   `json:"selling_price"`
	Revenue       float64   `json:"revenue"`
	Profit        float64   `json:"profit"`
	ProfitMargin  float64   `json:"profit_margin"`
	Date          time.Time `json:"date"`
}

type ProfitReport struct {
	Transactions []ProfitLine `json:"transactions"`
	Summary      struct {
		TotalRevenue     float64 `json:"total_revenue"`
		TotalProfit      float64 `json:"total_profit"`
		AverageMargin    float64 `json:"average_margin"`
		TransactionCount int     `json:"transaction_count"`
	} `json:"summary"`
}

type ReportService interface {
	Dashboard() (*DashboardReport, error)
	StockValue() (*StockValueReport, error)
	Movement(startDate, endDate *time.Time, productID *uuid.UUID) ([]ProductMovement, error)
	BIAnalytics(startDate, endDate *time.Time) (*BIAnalyticsReport, error)
	ProfitAnalysis(startDate, endDate *time.Time) (*ProfitReport, error)
}

type reportService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	withdrawalRepo  repository.WithdrawalRepository
}

func NewReportService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	wRepo repository.WithdrawalRepository,
) ReportService {
	return &reportService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		withdrawalRepo:  wRepo,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *reportService) Dashboard() (*DashboardReport, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	transactions, err := s.transactionRepo.FindInWindow(&thirtyDaysAgo, nil)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.withdrawalRepo.FindInWindow(&thirtyDaysAgo, nil)
	if err != nil {
		return nil, err
	}

	return buildDashboard(products, transactions, withdrawals), nil
}

func buildDashboard(products []model.Product, transactions []model.Transaction, withdrawals []model.CashWithdrawal) *DashboardReport {
	report := &DashboardReport{
		TotalProducts:    len(products),
		LowStockProducts: []LowStockProduct{},
	}

	var stockValue, stockQty float64
	for _, p := range products {
		stockValue += p.CurrentStock * p.CostPrice
		stockQty += p.CurrentStock
		if p.IsLowStock() {
			report.LowStockProducts = append(report.LowStockProducts, LowStockProduct{
				ID:            p.ID,
				Name:          p.Name,
				SKU:           p.SKU,
				CurrentStock:  p.CurrentStock,
				MinStockLevel: p.MinStockLevel,
			})
		}
	}
	report.TotalStockValue = round2(stockValue)
	report.TotalStockQuantity = round2(stockQty)
	report.LowStockCount = len(report.LowStockProducts)

	var stockIn, stockOut float64
	for _, t := range transactions {
		switch t.Type {
		case model.TxStockIn:
			stockIn += t.Quantity
		case model.TxStockOut:
			stockOut += t.Quantity
		}
	}

	var totalWithdrawn float64
	for _, w := range withdrawals {
		totalWithdrawn += w.Amount
	}

	report.RecentActivity = DashboardActivity{
		StockIn:         round2(stockIn),
		StockOut:        round2(stockOut),
		Transactions:    len(transactions),
		CashWithdrawals: len(withdrawals),
		TotalWithdrawn:  round2(totalWithdrawn),
	}

	return report
}

func (s *reportService) StockValue() (*StockValueReport, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	report := &StockValueReport{Products: []StockValueItem{}}
	for _, p := range products {
		item := StockValueItem{
			ID:             p.ID,
			Name:           p.Name,
			SKU:            p.SKU,
			Category:       p.Category,
			CurrentStock:   p.CurrentStock,
			Unit:           p.Unit,
			CostPrice:      p.CostPrice,
			SellingPrice:   p.SellingPrice,
			StockValue:     round2(p.CurrentStock * p.CostPrice),
			PotentialValue: round2(p.CurrentStock * p.SellingPrice),
		}
		report.Products = append(report.Products, item)
		report.Summary.TotalValue += item.StockValue
		report.Summary.TotalPotentialValue += item.PotentialValue
	}
	report.Summary.TotalValue = round2(report.Summary.TotalValue)
	report.Summary.TotalPotentialValue = round2(report.Summary.TotalPotentialValue)

	return report, nil
}

func (s *reportService) Movement(startDate, endDate *time.Time, productID *uuid.UUID) ([]ProductMovement, error) {
	transactions, err := s.transactionRepo.FindAll(repository.TransactionFilter{
		ProductID: productID,
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     10000,
	})
	if err != nil {
		return nil, err
	}

	return buildMovement(transactions), nil
}

func buildMovement(transactions []model.Transaction) []ProductMovement {
	grouped := map[uuid.UUID]*ProductMovement{}
	order := []uuid.UUID{}

	for _, t := range transactions {
		m, ok := grouped[t.ProductID]
		if !ok {
			m = &ProductMovement{Transactions: []MovementEntry{}}
			m.Product.ID = t.Product.ID
			m.Product.Name = t.Product.Name
			m.Product.SKU = t.Product.SKU
			m.Product.Category = t.Product.Category
			grouped[t.ProductID] = m
			order = append(order, t.ProductID)
		}

		switch t.Type {
		case model.TxStockIn:
			m.StockIn += t.Quantity
		case model.TxStockOut:
			m.StockOut += t.Quantity
		case model.TxAdjustment:
			m.Adjustments++
		}

		m.Transactions = append(m.Transactions, MovementEntry{
			ID:       t.ID,
			Type:     t.Type,
			Quantity: t.Quantity,
			Date:     t.CreatedAt,
		})
	}

	result := make([]ProductMovement, 0, len(order))
	for _, id := range order {
		m := grouped[id]
		m.StockIn = round2(m.StockIn)
		m.StockOut = round2(m.StockOut)
		result = append(result, *m)
	}
	return result
}

func (s *reportService) BIAnalytics(startDate, endDate *time.Time) (*BIAnalyticsReport, error) {
	// Default to the last 90 days
	if startDate == nil && endDate == nil {
		ninetyDaysAgo := time.Now().AddDate(0, 0, -90)
		startDate = &ninetyDaysAgo
	}

	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindInWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	return buildBIAnalytics(products, transactions), nil
}

func buildBIAnalytics(products []model.Product, transactions []model.Transaction) *BIAnalyticsReport {
	report := &BIAnalyticsReport{
		CategoryAnalysis:  []CategoryAnalysis{},
		TransactionTrends: []TransactionTrend{},
		CategoryRevenue:   []CategoryRevenue{},
		TopProducts:       []ProductPerformance{},
	}

	categories := map[string]*CategoryAnalysis{}
	var inventoryValue float64
	for _, p := range products {
		c, ok := categories[p.Category]
		if !ok {
			c = &CategoryAnalysis{Category: p.Category}
			categories[p.Category] = c
		}
		c.TotalStock += p.CurrentStock
		c.TotalValue += p.CurrentStock * p.CostPrice
		c.TotalPotentialValue += p.CurrentStock * p.SellingPrice
		c.ProductCount++
		inventoryValue += p.CurrentStock * p.CostPrice
	}
	for _, c := range categories {
		c.TotalStock = round2(c.TotalStock)
		c.TotalValue = round2(c.TotalValue)
		c.TotalPotentialValue = round2(c.TotalPotentialValue)
		report.CategoryAnalysis = append(report.CategoryAnalysis, *c)
	}
	sort.Slice(report.CategoryAnalysis, func(i, j int) bool {
		return report.CategoryAnalysis[i].Category < report.CategoryAnalysis[j].Category
	})

	trends := map[string]*TransactionTrend{}
	catRevenue := map[string]*CategoryRevenue{}
	performance := map[uuid.UUID]*ProductPerformance{}
	var totalRevenue float64

	for _, t := range transactions {
		dateKey := t.CreatedAt.UTC().Format("2006-01-02")
		tr, ok := trends[dateKey]
		if !ok {
			tr = &TransactionTrend{Date: dateKey}
			trends[dateKey] = tr
		}

		switch t.Type {
		case model.TxStockIn:
			tr.StockIn += t.Quantity
		case model.TxStockOut:
			tr.StockOut += t.Quantity
			tr.Revenue += t.TotalValue
			totalRevenue += t.TotalValue

			cr, ok := catRevenue[t.Product.Category]
			if !ok {
				cr = &CategoryRevenue{Category: t.Product.Category}
				catRevenue[t.Product.Category] = cr
			}
			cr.Revenue += t.TotalValue
			cr.Quantity += t.Quantity

			perf, ok := performance[t.ProductID]
			if !ok {
				perf = &ProductPerformance{
					ID:       t.Product.ID,
					Name:     t.Product.Name,
					Category: t.Product.Category,
				}
				performance[t.ProductID] = perf
			}
			perf.TotalQuantitySold += t.Quantity
			perf.TotalRevenue += t.TotalValue
			perf.TransactionCount++
		}
	}

	for _, tr := range trends {
		tr.StockIn = round2(tr.StockIn)
		tr.StockOut = round2(tr.StockOut)
		tr.Revenue = round2(tr.Revenue)
		report.TransactionTrends = append(report.TransactionTrends, *tr)
	}
	sort.Slice(report.TransactionTrends, func(i, j int) bool {
		return report.TransactionTrends[i].Date < report.TransactionTrends[j].Date
	})

	for _, cr := range catRevenue {
		cr.Revenue = round2(cr.Revenue)
		cr.Quantity = round2(cr.Quantity)
		report.CategoryRevenue = append(report.CategoryRevenue, *cr)
	}
	sort.Slice(report.CategoryRevenue, func(i, j int) bool {
		return report.CategoryRevenue[i].Category < report.CategoryRevenue[j].Category
	})

	for _, perf := range performance {
		perf.TotalQuantitySold = round2(perf.TotalQuantitySold)
		perf.TotalRevenue = round2(perf.TotalRevenue)
		report.TopProducts = append(report.TopProducts, *perf)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].TotalRevenue > report.TopProducts[j].TotalRevenue
	})
	if len(report.TopProducts) > 10 {
		report.TopProducts = report.TopProducts[:10]
	}

	report.Summary.TotalProducts = len(products)
	report.Summary.TotalInventoryValue = round2(inventoryValue)
	report.Summary.TotalRevenue = round2(totalRevenue)
	report.Summary.TotalTransactions = len(transactions)

	return report
}

func (s *reportService) ProfitAnalysis(startDate, endDate *time.Time) (*ProfitReport, error) {
	transactions, err := s.transactionRepo.FindAll(repository.TransactionFilter{
		Type:      model.TxStockOut,
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     10000,
	})
	if err != nil {
		return nil, err
	}

	return buildProfitReport(transactions), nil
}

// ProfitLineFor computes the per-sale profit breakdown. The cost side comes
// from the product's cost price; the sell side from the transaction price,
// falling back to the product's selling price.
func ProfitLineFor(t model.Transaction) ProfitLine {
	costPrice := t.Product.CostPrice
	sellingPrice := t.Price
	if sellingPrice == 0 {
		sellingPrice = t.Product.SellingPrice
	}

	profit := (sellingPrice - costPrice) * t.Quantity
	margin := 0.0
	if costPrice > 0 && sellingPrice != 0 {
		margin = (sellingPrice - costPrice) / sellingPrice * 100
	}

	revenue := t.TotalValue
	if revenue == 0 {
		revenue = sellingPrice * t.Quantity
	}

	return ProfitLine{
		TransactionID: t.ID,
		ProductName:   t.Product.Name,
		Category:      t.Product.Category,
		Quantity:      t.Quantity,
		CostPrice:     costPrice,
		SellingPrice:  sellingPrice,
		Revenue:       round2(revenue),
		Profit:        round2(profit),
		ProfitMargin:  round2(margin),
		Date:          t.CreatedAt,
	}
}

func buildProfitReport(transactions []model.Transaction) *ProfitReport {
	report := &ProfitReport{Transactions: []ProfitLine{}}

	var totalRevenue, totalProfit, marginSum float64
	for _, t := range transactions {
		line := ProfitLineFor(t)
		report.Transactions = append(report.Transactions, line)
		totalRevenue += line.Revenue
		totalProfit += line.Profit
		marginSum += line.ProfitMargin
	}

	report.Summary.TotalRevenue = round2(totalRevenue)
	report.Summary.TotalProfit = round2(totalProfit)
	if n := len(report.Transactions); n > 0 {
		report.Summary.AverageMargin = round2(marginSum / float64(n))
	}
	report.Summary.TransactionCount = len(report.Transactions)

	return report
}

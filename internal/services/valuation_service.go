package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/valuation"
)

// valuationService derives holdings snapshots from stored transactions.
type valuationService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(db *gorm.DB, portfolioService PortfolioServicer) ValuationServicer {
	return &valuationService{db: db, portfolioService: portfolioService}
}

// GetPortfolioSnapshot loads a portfolio's full transaction history with its
// stock references resolved, builds a price lookup from the latest recorded
// quotes, and folds everything into a valuation snapshot. The snapshot is
// derived state only: it is recomputed on every call and never persisted.
func (s *valuationService) GetPortfolioSnapshot(userID, portfolioID string) (*valuation.Snapshot, error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Preload("Stock").
		Where("portfolio_id = ?", portfolioID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]valuation.Record, 0, len(transactions))
	stockIDs := make([]string, 0, len(transactions))
	idBySymbol := make(map[string]string)
	for i := range transactions {
		tx := &transactions[i]
		if tx.Stock.ID == "" {
			return nil, apperrors.Wrap(apperrors.ErrDataIntegrity,
				fmt.Errorf("transaction %s references missing stock %s", tx.ID, tx.StockID))
		}
		if _, seen := idBySymbol[tx.Stock.Symbol]; !seen {
			idBySymbol[tx.Stock.Symbol] = tx.Stock.ID
			stockIDs = append(stockIDs, tx.Stock.ID)
		}
		records = append(records, valuation.Record{
			Type:     valuation.TransactionType(tx.Type),
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Fees:     tx.Fees,
			Date:     tx.Date,
			Stock: valuation.StockRef{
				Symbol: tx.Stock.Symbol,
				Sector: tx.Stock.Sector,
			},
		})
	}

	quotes, err := getLatestPrices(s.db, stockIDs)
	if err != nil {
		return nil, err
	}

	priceFn := func(stock valuation.StockRef) (float64, bool) {
		id, ok := idBySymbol[stock.Symbol]
		if !ok {
			return 0, false
		}
		price, ok := quotes[id]
		return price, ok
	}

	snapshot, err := valuation.Aggregate(records, priceFn)
	if err != nil {
		if errors.Is(err, valuation.ErrUnresolvedStock) {
			return nil, apperrors.Wrap(apperrors.ErrDataIntegrity, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return snapshot, nil
}

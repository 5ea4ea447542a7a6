package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
)

// stockService handles stock reference data and recorded quotes.
type stockService struct {
	db *gorm.DB
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB) StockServicer {
	return &stockService{db: db}
}

// NormalizeSymbol uppercases and trims a ticker symbol. Symbols are matched
// case-insensitively at ingestion and treated as exact keys afterwards.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetOrCreateStock returns the stock for the given symbol, creating it from
// the supplied reference data on first mention. Reference fields of an
// existing stock are never overwritten.
func (s *stockService) GetOrCreateStock(input StockInput) (*models.Stock, error) {
	symbol := NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Stock symbol is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = symbol
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	stock := models.Stock{
		Symbol:   symbol,
		Name:     name,
		Sector:   input.Sector,
		Industry: input.Industry,
		Exchange: input.Exchange,
		Currency: currency,
	}

	// FirstOrCreate keyed on the symbol keeps concurrent first mentions from
	// racing into duplicates thanks to the unique index.
	result := s.db.Where("symbol = ?", symbol).Attrs(stock).FirstOrCreate(&stock)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return s.GetStockBySymbol(symbol)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	return &stock, nil
}

// GetStockByID returns a stock by its ID.
func (s *stockService) GetStockByID(id string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db.Where("id = ?", id).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// GetStockBySymbol returns a stock by its normalized symbol.
func (s *stockService) GetStockBySymbol(symbol string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db.Where("symbol = ?", NormalizeSymbol(symbol)).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// ListStocks returns a paginated list of stocks ordered by symbol.
func (s *stockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Stock{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stocks []models.Stock
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecordPrices bulk-inserts quotes for a stock, skipping entries that already
// exist for the same timestamp. Returns the number of rows inserted.
func (s *stockService) RecordPrices(stockID string, prices []PriceInput) (int, error) {
	if len(prices) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices array is empty")
	}
	if _, err := s.GetStockByID(stockID); err != nil {
		return 0, err
	}

	count := 0
	for _, p := range prices {
		if p.Price < 0 {
			return count, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
		}
		recordedAt := p.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}

		sp := models.StockPrice{
			StockID:    stockID,
			Price:      p.Price,
			RecordedAt: recordedAt,
		}
		result := s.db.Where("stock_id = ? AND recorded_at = ?", stockID, recordedAt).
			FirstOrCreate(&sp)
		if result.Error != nil {
			return count, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected > 0 {
			count++
		}
	}

	return count, nil
}

// GetPriceHistory returns paginated quotes for a stock within a date range.
// A zero from or to leaves that side of the range open.
func (s *stockService) GetPriceHistory(stockID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error) {
	if _, err := s.GetStockByID(stockID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.StockPrice{}).Where("stock_id = ?", stockID)
	if !from.IsZero() {
		base = base.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		base = base.Where("recorded_at <= ?", to)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.StockPrice
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// getLatestPrices fetches the most recent quote per stock ID. Stocks with no
// recorded quotes are absent from the returned map.
func getLatestPrices(db *gorm.DB, stockIDs []string) (map[string]float64, error) {
	if len(stockIDs) == 0 {
		return map[string]float64{}, nil
	}

	type priceRow struct {
		StockID string
		Price   float64
	}
	var rows []priceRow

	subq := db.Table("stock_prices").
		Select("stock_id, MAX(recorded_at) AS max_recorded").
		Where("stock_id IN ?", stockIDs).
		Group("stock_id")

	if err := db.Table("stock_prices sp").
		Select("sp.stock_id, sp.price").
		Joins("INNER JOIN (?) latest ON sp.stock_id = latest.stock_id AND sp.recorded_at = latest.max_recorded", subq).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.StockID] = r.Price
	}
	return result, nil
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
	stockService     StockServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, portfolioService PortfolioServicer, stockService StockServicer) TransactionServicer {
	return &transactionService{
		db:               db,
		portfolioService: portfolioService,
		stockService:     stockService,
	}
}

// CreateTransaction records a buy or sell against a portfolio, creating the
// referenced stock on first mention. Sells are accepted without checking the
// currently held quantity; the valuation pass clamps oversells to a closed
// position instead of rejecting them here.
func (s *transactionService) CreateTransaction(userID, portfolioID string, input TransactionInput) (*models.Transaction, error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	if input.Type != models.TransactionTypeBuy && input.Type != models.TransactionTypeSell {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.Quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if input.Price < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
	}
	if input.Fees < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Fees cannot be negative")
	}

	stock, err := s.stockService.GetOrCreateStock(input.Stock)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		PortfolioID: portfolioID,
		StockID:     stock.ID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Fees:        input.Fees,
		Date:        date,
		Notes:       input.Notes,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction.Stock = *stock
	return transaction, nil
}

// GetPortfolioTransactions returns a paginated transaction list in ascending
// date order with creation order as the tiebreak, which is the order the
// valuation fold expects.
func (s *transactionService) GetPortfolioTransactions(userID, portfolioID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("portfolio_id = ?", portfolioID)
	base = applyTransactionFilter(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Stock").Order("date ASC, created_at ASC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if its portfolio belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Portfolio").Preload("Stock").
		Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.Portfolio.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}

	return &transaction, nil
}

// DeleteTransaction soft-deletes a transaction. The next valuation pass
// recomputes holdings without it; nothing derived is stored.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// applyTransactionFilter narrows a transaction query by the optional filters.
func applyTransactionFilter(q *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Symbol != "" {
		q = q.Where("stock_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&models.Stock{}).
				Select("id").Where("symbol = ?", NormalizeSymbol(filter.Symbol)))
	}
	return q
}

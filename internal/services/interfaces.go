// Package services contains the business logic between HTTP handlers and
// the database. Each service is constructed with a *gorm.DB and returns
// AppErrors for anything a handler should report to a client.
package services

import (
	"time"

	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
	"foliotrack/internal/valuation"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// PortfolioServicer defines the contract for portfolio-related business logic.
type PortfolioServicer interface {
	CreatePortfolio(userID, name, description string, initialCapital float64) (*models.Portfolio, error)
	GetUserPortfolios(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolioByID(userID, portfolioID string) (*models.Portfolio, error)
	UpdatePortfolio(userID, portfolioID, name, description string, initialCapital *float64) (*models.Portfolio, error)
	DeletePortfolio(userID, portfolioID string) error
}

// StockInput holds the reference data supplied when a transaction first
// mentions a symbol. Only the symbol is mandatory; the rest is kept if the
// stock has to be created.
type StockInput struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Exchange string
	Currency string
}

// PriceInput is one quote to record for a stock.
type PriceInput struct {
	Price      float64
	RecordedAt time.Time
}

// StockServicer defines the contract for stock reference data and quotes.
type StockServicer interface {
	GetOrCreateStock(input StockInput) (*models.Stock, error)
	GetStockByID(id string) (*models.Stock, error)
	GetStockBySymbol(symbol string) (*models.Stock, error)
	ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	RecordPrices(stockID string, prices []PriceInput) (int, error)
	GetPriceHistory(stockID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error)
}

// TransactionInput holds the fields for recording a buy or sell. Stock
// reference fields are used for get-or-create when the symbol is new.
type TransactionInput struct {
	Stock    StockInput
	Type     models.TransactionType
	Quantity float64
	Price    float64
	Fees     float64
	Date     time.Time
	Notes    string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Symbol   string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, portfolioID string, input TransactionInput) (*models.Transaction, error)
	GetPortfolioTransactions(userID, portfolioID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ValuationServicer derives the holdings snapshot for a portfolio.
type ValuationServicer interface {
	GetPortfolioSnapshot(userID, portfolioID string) (*valuation.Snapshot, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

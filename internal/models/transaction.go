package models

import "time"

// TransactionType is the side of a trade.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is a single buy or sell recorded against a portfolio. Records
// are immutable once created; the only mutation the API offers is deletion.
type Transaction struct {
	Base
	PortfolioID string          `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	StockID     string          `gorm:"type:uuid;not null;index" json:"stock_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Quantity    float64         `gorm:"not null" json:"quantity"`
	Price       float64         `gorm:"not null" json:"price"`
	Fees        float64         `gorm:"not null;default:0" json:"fees"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Notes       string          `json:"notes"`

	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
	Stock     Stock     `gorm:"foreignKey:StockID" json:"stock"`
}

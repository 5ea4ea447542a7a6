package models

import (
	"time"

	"foliotrack/internal/uuid"

	"gorm.io/gorm"
)

// StockPrice is one recorded quote for a stock. Rows are append-only
// time-series data, so there is no Base embed and no soft delete. The most
// recent row per stock feeds the valuation price lookup; stocks without any
// rows are valued at their last trade price.
type StockPrice struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	StockID    string    `gorm:"type:uuid;not null;index" json:"stock_id"`
	Price      float64   `gorm:"not null" json:"price"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`

	Stock Stock `gorm:"foreignKey:StockID" json:"stock,omitempty"`
}

// BeforeCreate assigns a UUIDv7 primary key to new records.
func (s *StockPrice) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

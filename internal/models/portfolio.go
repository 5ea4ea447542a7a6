package models

// Portfolio is a named collection of transactions owned by one user.
// InitialCapital is informational only; it is never enforced as a balance.
type Portfolio struct {
	Base
	UserID         string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string  `gorm:"not null" json:"name"`
	Description    string  `json:"description"`
	InitialCapital float64 `gorm:"not null;default:0" json:"initial_capital"`

	Transactions []Transaction `gorm:"foreignKey:PortfolioID" json:"transactions,omitempty"`
}

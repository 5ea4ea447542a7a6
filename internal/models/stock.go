package models

// Stock is shared reference data for one instrument. Rows are created on
// first reference (get-or-create keyed on the uppercase symbol) and never
// deleted; transactions across all users point at the same row.
type Stock struct {
	Base
	Symbol   string `gorm:"uniqueIndex;not null" json:"symbol"`
	Name     string `gorm:"not null" json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Exchange string `json:"exchange"`
	Currency string `gorm:"not null;default:'USD'" json:"currency"`
}

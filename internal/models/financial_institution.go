package models

// FinancialInstitution represents a bank or broker an account belongs to.
type FinancialInstitution struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`

	// Relationships
	Accounts []Account `gorm:"foreignKey:FinancialInstitutionID" json:"accounts,omitempty"`
}

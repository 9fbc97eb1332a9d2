package models

// Account represents a financial account in the system.
// Balances are derived from the initial balance plus the signed sum of the
// account's own transactions; they are never stored.
type Account struct {
	Base
	UserID                 uint  `gorm:"not null;index" json:"user_id"`
	Name                   string `gorm:"not null" json:"name"`
	InitialBalance         int64  `gorm:"type:bigint;not null;default:0" json:"initial_balance"`
	Description            string `json:"description"`
	Color                  string `gorm:"not null;default:'#FFFFFF'" json:"color"`
	IncludeInDashboard     bool   `gorm:"default:true" json:"include_in_dashboard"`
	FinancialInstitutionID *uint  `json:"financial_institution_id,omitempty"`

	// Relationships
	FinancialInstitution *FinancialInstitution `gorm:"foreignKey:FinancialInstitutionID" json:"financial_institution,omitempty"`
	Transactions         []Transaction         `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

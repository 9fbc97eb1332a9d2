package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// InstallmentPeriod is the unit used to space installments of a
// recurring series.
type InstallmentPeriod string

const (
	InstallmentPeriodDays   InstallmentPeriod = "days"
	InstallmentPeriodWeeks  InstallmentPeriod = "weeks"
	InstallmentPeriodMonths InstallmentPeriod = "months"
	InstallmentPeriodYears  InstallmentPeriod = "years"
)

// Transaction represents a financial transaction in the system.
//
// A fixed transaction (IsFixed) is a single row that repeats every month
// from its date onward; occurrences are accrued at query time, never
// materialized. A recurring transaction (IsRecurring) is a finite
// installment series: the request is expanded into independent rows up
// front, each row non-fixed and non-recurring, sharing a RecurrenceID.
// A row is never both fixed and recurring.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	AccountID   uint            `gorm:"not null" json:"account_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	TagID       *uint           `json:"tag_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Value       int64           `gorm:"type:bigint;not null" json:"value"`
	Description string          `gorm:"not null" json:"description"`
	Notes       string          `json:"notes,omitempty"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	IsPaid      bool            `gorm:"default:true" json:"is_paid"`
	IsFixed     bool            `gorm:"default:false" json:"is_fixed"`
	IsRecurring bool            `gorm:"default:false" json:"is_recurring"`

	// Recurrence fields. Installments and InstallmentPeriod only appear on
	// incoming requests; materialized rows carry RecurrenceID and
	// CurrentInstallment instead.
	Installments       *int               `json:"installments,omitempty"`
	InstallmentPeriod  *InstallmentPeriod `json:"installment_period,omitempty"`
	RecurrenceID       *string            `gorm:"size:36;index" json:"recurrence_id,omitempty"`
	CurrentInstallment *int               `json:"current_installment,omitempty"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tag      *Tag      `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

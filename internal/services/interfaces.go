package services

import (
	"time"

	"centavo/internal/models"
	"centavo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name, currency string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// AccountFields holds the writable attributes of an account.
type AccountFields struct {
	Name                   string
	InitialBalance         int64
	Description            string
	Color                  string
	IncludeInDashboard     bool
	FinancialInstitutionID *uint
}

// AccountOverview is an account together with its derived balances.
// CurrentBalance counts only paid transactions; PredictedBalance counts
// every transaction, settled or not.
type AccountOverview struct {
	models.Account
	CurrentBalance   int64 `json:"current_balance"`
	PredictedBalance int64 `json:"predicted_balance"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, fields AccountFields) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[AccountOverview], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, fields AccountFields) (*models.Account, error)
	DeleteAccount(userID, accountID uint) error
	ToggleDashboard(userID, accountID uint) (*models.Account, error)
	AccountBalances(userID, accountID uint) (current, predicted int64, err error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID uint, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	CreateTag(userID uint, name string) (*models.Tag, error)
	GetUserTags(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error)
	GetTagByID(userID, tagID uint) (*models.Tag, error)
	UpdateTag(userID, tagID uint, name string) (*models.Tag, error)
	DeleteTag(userID, tagID uint) error
}

// InstitutionServicer defines the contract for financial-institution business logic.
type InstitutionServicer interface {
	CreateInstitution(userID uint, name, icon string) (*models.FinancialInstitution, error)
	GetUserInstitutions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialInstitution], error)
	GetInstitutionByID(userID, institutionID uint) (*models.FinancialInstitution, error)
	UpdateInstitution(userID, institutionID uint, name, icon string) (*models.FinancialInstitution, error)
	DeleteInstitution(userID, institutionID uint) error
}

// TransactionFields holds the writable attributes of a transaction as they
// arrive from a create or update request, including the recurrence template
// fields that never reach storage directly.
type TransactionFields struct {
	AccountID         uint
	CategoryID        *uint
	TagID             *uint
	Type              models.TransactionType
	Value             int64
	Description       string
	Notes             string
	Date              time.Time
	IsPaid            bool
	IsFixed           bool
	IsRecurring       bool
	Installments      int
	InstallmentPeriod models.InstallmentPeriod
}

// TransactionServicer defines the contract for transaction-related business
// logic, including materialization of recurring installment series.
// CreateTransaction and UpdateTransaction return every row they produced:
// a single row for ordinary and fixed transactions, one row per installment
// for recurring ones.
type TransactionServicer interface {
	CreateTransaction(userID uint, fields TransactionFields) ([]models.Transaction, error)
	GetUserTransactions(userID uint, year, month int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionFields) ([]models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	CategoryID *uint  `json:"category_id,omitempty"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Total      int64  `json:"total"`
}

// DailyExpense is the paid-expense total for a single day.
type DailyExpense struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// MonthlyFlow is the income/expense pair for one calendar month.
type MonthlyFlow struct {
	Month    string `json:"month"`
	Incomes  int64  `json:"incomes"`
	Expenses int64  `json:"expenses"`
}

// PeriodSummary is the dashboard payload for one selected month.
// ExpenseFrequency and IncomesVsExpenses are anchored to the real current
// date, not to the selected period.
type PeriodSummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	CurrentBalance   int64 `json:"current_balance"`
	PredictedBalance int64 `json:"predicted_balance"`

	MonthlyIncomes  int64 `json:"monthly_incomes"`
	MonthlyExpenses int64 `json:"monthly_expenses"`

	OutstandingIncomes  int64 `json:"outstanding_incomes"`
	OutstandingExpenses int64 `json:"outstanding_expenses"`

	IncomesByCategory  []CategoryTotal `json:"incomes_by_category"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`

	ExpenseFrequency  []DailyExpense `json:"expense_frequency"`
	IncomesVsExpenses []MonthlyFlow  `json:"incomes_vs_expenses"`
}

// SummaryServicer defines the contract for the period-summary aggregation.
type SummaryServicer interface {
	GetPeriodSummary(userID uint, year, month int) (*PeriodSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

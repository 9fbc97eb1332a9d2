package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centavo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", counter.Load()),
		Currency: "BRL",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account with zero initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates an account with the given initial
// balance (in cents), included in the dashboard.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:             userID,
		Name:               fmt.Sprintf("Test Account %d", nextID()),
		InitialBalance:     balance,
		Color:              "#FFFFFF",
		IncludeInDashboard: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#3B82F6",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTag creates a tag.
func CreateTestTag(t *testing.T, db *gorm.DB, userID uint) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		UserID: userID,
		Name:   fmt.Sprintf("Test Tag %d", nextID()),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestInstitution creates a financial institution.
func CreateTestInstitution(t *testing.T, db *gorm.DB, userID uint) *models.FinancialInstitution {
	t.Helper()

	institution := &models.FinancialInstitution{
		UserID: userID,
		Name:   fmt.Sprintf("Test Bank %d", nextID()),
	}
	if err := db.Create(institution).Error; err != nil {
		t.Fatalf("failed to create test institution: %v", err)
	}
	return institution
}

// CreateTestTransaction creates a paid transaction of the given type and
// value (in cents) dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, value int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, accountID, txType, value, time.Now())
}

// CreateTestTransactionAt creates a paid transaction dated at the given time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, value int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Type:        txType,
		Value:       value,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
		IsPaid:      true,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestFixedTransaction creates a paid fixed transaction whose monthly
// accrual starts at the given date.
func CreateTestFixedTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, value int64, start time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Type:        txType,
		Value:       value,
		Description: fmt.Sprintf("Test Fixed %d", nextID()),
		Date:        start,
		IsPaid:      true,
		IsFixed:     true,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test fixed transaction: %v", err)
	}
	return tx
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction creates a new transaction for a user's account.
//
// A recurring request does not create a single row: it is expanded into one
// independent row per installment, all sharing a recurrence ID, inside a
// single database transaction so a failure never leaves a partial series.
// Fixed transactions stay a single row; their monthly occurrences are
// accrued at query time by the summary service.
func (s *transactionService) CreateTransaction(userID uint, fields TransactionFields) ([]models.Transaction, error) {
	if err := s.validateFields(userID, &fields); err != nil {
		return nil, err
	}

	if fields.IsRecurring {
		var created []models.Transaction
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = s.materializeSeries(tx, userID, fields)
			return txErr
		})
		if err != nil {
			return nil, err
		}
		return created, nil
	}

	transaction := newRowFromFields(userID, fields)
	transaction.IsFixed = fields.IsFixed
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return []models.Transaction{*transaction}, nil
}

// validateFields checks a create/update payload and verifies that every
// referenced record belongs to the user. Ownership misses surface as the
// resource's not-found error.
func (s *transactionService) validateFields(userID uint, fields *TransactionFields) error {
	if fields.Value <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "value must be greater than zero")
	}
	if fields.AccountID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if fields.Type != models.TransactionTypeIncome && fields.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if fields.IsFixed && fields.IsRecurring {
		return apperrors.ErrRecurrenceConflict
	}
	if fields.IsRecurring {
		if fields.Installments < 2 {
			return apperrors.ErrInvalidRecurrence
		}
		switch fields.InstallmentPeriod {
		case models.InstallmentPeriodDays, models.InstallmentPeriodWeeks,
			models.InstallmentPeriodMonths, models.InstallmentPeriodYears:
		default:
			return apperrors.ErrInvalidRecurrence
		}
	}

	if fields.Date.IsZero() {
		fields.Date = time.Now()
	}

	if _, err := s.accountService.GetAccountByID(userID, fields.AccountID); err != nil {
		return err
	}
	if fields.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *fields.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if fields.TagID != nil {
		var tag models.Tag
		if err := s.db.Where("id = ? AND user_id = ?", *fields.TagID, userID).First(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTagNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// newRowFromFields builds a plain stored row from a payload. Recurrence
// template fields are always stripped; the caller decides IsFixed and the
// recurrence markers.
func newRowFromFields(userID uint, fields TransactionFields) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		AccountID:   fields.AccountID,
		CategoryID:  fields.CategoryID,
		TagID:       fields.TagID,
		Type:        fields.Type,
		Value:       fields.Value,
		Description: fields.Description,
		Notes:       fields.Notes,
		Date:        fields.Date,
		IsPaid:      fields.IsPaid,
	}
}

// materializeSeries expands a recurring template into its installment rows.
// Installment i is dated (i-1) periods after the start date; month and year
// steps clamp to the last valid day of the target month. Every row is an
// ordinary non-fixed, non-recurring transaction afterwards, independently
// editable and deletable.
func (s *transactionService) materializeSeries(tx *gorm.DB, userID uint, fields TransactionFields) ([]models.Transaction, error) {
	seriesID := uuid.New()

	created := make([]models.Transaction, 0, fields.Installments)
	for i := 1; i <= fields.Installments; i++ {
		installment := i
		row := newRowFromFields(userID, fields)
		row.Date = advanceBy(fields.Date, fields.InstallmentPeriod, i-1)
		row.Description = fmt.Sprintf("%s (%d/%d)", fields.Description, i, fields.Installments)
		row.RecurrenceID = &seriesID
		row.CurrentInstallment = &installment

		if err := tx.Create(row).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, *row)
	}
	return created, nil
}

// GetUserTransactions retrieves a paginated list of the user's transactions
// in the given month, most recent first, with account, category, and tag
// preloaded. Zero year and month select the current calendar month.
func (s *transactionService) GetUserTransactions(userID uint, year, month int, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	now := time.Now()
	if year == 0 && month == 0 {
		year, month = now.Year(), int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "month must be between 1 and 12")
	}

	start, end := monthWindow(year, time.Month(month), now.Location())

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.
		Preload("Account").
		Preload("Category").
		Preload("Tag").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces the editable fields of a transaction.
//
// Setting IsRecurring on an existing transaction is a destructive replace:
// the original row is deleted and a fresh installment series is
// materialized in its place, all within one database transaction. Any prior
// edits to the original row are lost. Updating one installment of an
// existing series only touches that row; siblings are unaffected.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionFields) ([]models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.validateFields(userID, &fields); err != nil {
		return nil, err
	}

	if fields.IsRecurring {
		var created []models.Transaction
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(transaction).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			var txErr error
			created, txErr = s.materializeSeries(tx, userID, fields)
			return txErr
		})
		if err != nil {
			return nil, err
		}
		return created, nil
	}

	updates := map[string]interface{}{
		"account_id":         fields.AccountID,
		"category_id":        fields.CategoryID,
		"tag_id":             fields.TagID,
		"type":               fields.Type,
		"value":              fields.Value,
		"description":        fields.Description,
		"notes":              fields.Notes,
		"date":               fields.Date,
		"is_paid":            fields.IsPaid,
		"is_fixed":           fields.IsFixed,
		"is_recurring":       false,
		"installments":       nil,
		"installment_period": nil,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updated, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	return []models.Transaction{*updated}, nil
}

// DeleteTransaction soft-deletes a transaction. Deleting one installment of
// a recurring series leaves its siblings in place.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

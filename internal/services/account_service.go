package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user.
func (s *accountService) CreateAccount(userID uint, fields AccountFields) (*models.Account, error) {
	if fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if fields.Color == "" {
		fields.Color = "#FFFFFF"
	}
	if err := s.checkInstitution(userID, fields.FinancialInstitutionID); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:                 userID,
		Name:                   fields.Name,
		InitialBalance:         fields.InitialBalance,
		Description:            fields.Description,
		Color:                  fields.Color,
		IncludeInDashboard:     fields.IncludeInDashboard,
		FinancialInstitutionID: fields.FinancialInstitutionID,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetUserAccounts retrieves a paginated list of the user's accounts with
// derived balances attached.
func (s *accountService) GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[AccountOverview], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.
		Preload("FinancialInstitution").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	overviews := make([]AccountOverview, 0, len(accounts))
	for _, account := range accounts {
		current, predicted, err := s.balancesFor(&account)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, AccountOverview{
			Account:          account,
			CurrentBalance:   current,
			PredictedBalance: predicted,
		})
	}

	result := pagination.NewPageResponse(overviews, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's fields.
func (s *accountService) UpdateAccount(userID, accountID uint, fields AccountFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if err := s.checkInstitution(userID, fields.FinancialInstitutionID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":                     fields.Name,
		"initial_balance":          fields.InitialBalance,
		"description":              fields.Description,
		"color":                    fields.Color,
		"include_in_dashboard":     fields.IncludeInDashboard,
		"financial_institution_id": fields.FinancialInstitutionID,
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetAccountByID(userID, accountID)
}

// DeleteAccount soft-deletes an account together with its transactions, so
// removed accounts stop contributing to summaries.
func (s *accountService) DeleteAccount(userID, accountID uint) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND user_id = ?", accountID, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ToggleDashboard flips whether the account's initial balance counts toward
// the dashboard's current balance.
func (s *accountService) ToggleDashboard(userID, accountID uint) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).
		Update("include_in_dashboard", !account.IncludeInDashboard).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetAccountByID(userID, accountID)
}

// AccountBalances returns the current (paid-only) and predicted (all
// transactions) balances of one account.
func (s *accountService) AccountBalances(userID, accountID uint) (int64, int64, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return 0, 0, err
	}
	return s.balancesFor(account)
}

// balancesFor derives both balances: the initial balance plus the signed
// sum of the account's own transactions, paid-only for current and
// unrestricted for predicted.
func (s *accountService) balancesFor(account *models.Account) (int64, int64, error) {
	paid, err := s.signedSum(account, true)
	if err != nil {
		return 0, 0, err
	}
	all, err := s.signedSum(account, false)
	if err != nil {
		return 0, 0, err
	}
	return account.InitialBalance + paid, account.InitialBalance + all, nil
}

func (s *accountService) signedSum(account *models.Account, paidOnly bool) (int64, error) {
	var total int64
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN value ELSE -value END), 0)").
		Where("user_id = ? AND account_id = ?", account.UserID, account.ID)
	if paidOnly {
		q = q.Where("is_paid = ?", true)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// checkInstitution verifies that a referenced financial institution exists
// and belongs to the user.
func (s *accountService) checkInstitution(userID uint, institutionID *uint) error {
	if institutionID == nil {
		return nil
	}
	var institution models.FinancialInstitution
	if err := s.db.Where("id = ? AND user_id = ?", *institutionID, userID).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInstitutionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

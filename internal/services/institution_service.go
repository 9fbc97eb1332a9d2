package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// institutionService handles financial-institution business logic.
type institutionService struct {
	db *gorm.DB
}

// NewInstitutionService creates a new InstitutionServicer.
func NewInstitutionService(db *gorm.DB) InstitutionServicer {
	return &institutionService{db: db}
}

// CreateInstitution creates a new financial institution for a user.
func (s *institutionService) CreateInstitution(userID uint, name, icon string) (*models.FinancialInstitution, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "institution name is required")
	}

	institution := &models.FinancialInstitution{
		UserID: userID,
		Name:   name,
		Icon:   icon,
	}

	if err := s.db.Create(institution).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return institution, nil
}

// GetUserInstitutions retrieves a paginated list of the user's institutions.
func (s *institutionService) GetUserInstitutions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialInstitution], error) {
	page.Defaults()

	base := s.db.Model(&models.FinancialInstitution{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var institutions []models.FinancialInstitution
	if err := base.
		Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&institutions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(institutions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInstitutionByID retrieves an institution by ID for a specific user.
func (s *institutionService) GetInstitutionByID(userID, institutionID uint) (*models.FinancialInstitution, error) {
	var institution models.FinancialInstitution
	if err := s.db.Where("id = ? AND user_id = ?", institutionID, userID).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &institution, nil
}

// UpdateInstitution updates an existing institution.
func (s *institutionService) UpdateInstitution(userID, institutionID uint, name, icon string) (*models.FinancialInstitution, error) {
	institution, err := s.GetInstitutionByID(userID, institutionID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "institution name is required")
	}

	updates := map[string]interface{}{
		"name": name,
		"icon": icon,
	}
	if err := s.db.Model(institution).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetInstitutionByID(userID, institutionID)
}

// DeleteInstitution soft-deletes an institution. Institutions still
// referenced by accounts cannot be deleted.
func (s *institutionService) DeleteInstitution(userID, institutionID uint) error {
	institution, err := s.GetInstitutionByID(userID, institutionID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("user_id = ? AND financial_institution_id = ?", userID, institutionID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrInstitutionInUse
	}

	if err := s.db.Delete(institution).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

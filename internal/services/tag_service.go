package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// tagService handles tag-related business logic.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// CreateTag creates a new tag for a user. Names are unique per user.
func (s *tagService) CreateTag(userID uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	var count int64
	if err := s.db.Model(&models.Tag{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag already exists")
	}

	tag := &models.Tag{
		UserID: userID,
		Name:   name,
	}

	if err := s.db.Create(tag).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tag, nil
}

// GetUserTags retrieves a paginated list of the user's tags.
func (s *tagService) GetUserTags(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error) {
	page.Defaults()

	base := s.db.Model(&models.Tag{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tags []models.Tag
	if err := base.
		Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tags, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTagByID retrieves a tag by ID for a specific user.
func (s *tagService) GetTagByID(userID, tagID uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

// UpdateTag renames an existing tag.
func (s *tagService) UpdateTag(userID, tagID uint, name string) (*models.Tag, error) {
	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	if err := s.db.Model(tag).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetTagByID(userID, tagID)
}

// DeleteTag soft-deletes a tag. Transactions keep their tag_id.
func (s *tagService) DeleteTag(userID, tagID uint) error {
	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(tag).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

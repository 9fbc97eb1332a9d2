package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// InstitutionHandler handles financial-institution requests.
type InstitutionHandler struct {
	institutionService services.InstitutionServicer
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(institutionService services.InstitutionServicer) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

// InstitutionRequest represents the payload for creating or updating an institution.
type InstitutionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Icon string `json:"icon" binding:"max=50"`
}

// CreateInstitution handles the creation of a new institution
// @Summary     Create a financial institution
// @Description Create a new financial institution for grouping accounts
// @Tags        institutions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InstitutionRequest true "Institution details"
// @Success     201 {object} models.FinancialInstitution "Institution created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /institutions [post]
func (h *InstitutionHandler) CreateInstitution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	institution, err := h.institutionService.CreateInstitution(userID, req.Name, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"institution": institution})
}

// GetUserInstitutions handles the retrieval of the user's institutions
// @Summary     Get user institutions
// @Description Get a paginated list of the user's financial institutions
// @Tags        institutions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FinancialInstitution] "Paginated institutions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /institutions [get]
func (h *InstitutionHandler) GetUserInstitutions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.institutionService.GetUserInstitutions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateInstitution handles updating an existing institution
// @Summary     Update institution
// @Description Update an existing financial institution
// @Tags        institutions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Institution ID"
// @Param       request body InstitutionRequest true "Fields to update"
// @Success     200 {object} models.FinancialInstitution "Updated institution"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Institution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /institutions/{id} [put]
func (h *InstitutionHandler) UpdateInstitution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	institutionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	institution, err := h.institutionService.UpdateInstitution(userID, institutionID, req.Name, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"institution": institution})
}

// DeleteInstitution handles the deletion of an institution
// @Summary     Delete institution
// @Description Delete a financial institution. Institutions still referenced by accounts cannot be deleted.
// @Tags        institutions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Institution ID"
// @Success     200 {object} MessageResponse "Institution deleted"
// @Failure     400 {object} ErrorResponse "Invalid institution ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Institution not found"
// @Failure     409 {object} ErrorResponse "Institution in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /institutions/{id} [delete]
func (h *InstitutionHandler) DeleteInstitution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	institutionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.institutionService.DeleteInstitution(userID, institutionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Institution deleted successfully"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"centavo/internal/services"
)

// DashboardHandler serves the period summary that backs the dashboard.
type DashboardHandler struct {
	summaryService services.SummaryServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(summaryService services.SummaryServicer) *DashboardHandler {
	return &DashboardHandler{summaryService: summaryService}
}

// GetSummary handles the period summary request
// @Summary     Get period summary
// @Description Get the dashboard aggregates for one calendar month: balances, monthly and outstanding totals, category breakdowns, and the trailing daily and monthly series. Omitting year and month selects the current month.
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (1900-2100)"
// @Param       month query int false "Month (1-12)"
// @Success     200 {object} services.PeriodSummary "Period summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetPeriodSummary(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/dto"
)

// reportingHandler handles HTTP requests for dashboard aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the dashboard routes. All staff roles may
// read the dashboard.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
	}
}

// getDashboard godoc
// @Summary Portfolio dashboard aggregates
// @Description Borrower and loan counts, active principal, outstanding total, status distribution and recent repayment trend
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DashboardStatsResponse
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	stats, err := h.reportingService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(stats))
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karofin/loan_management_app/internal/core/domain"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/dto"
	"github.com/karofin/loan_management_app/internal/middleware"
)

// borrowerHandler handles HTTP requests related to borrowers.
type borrowerHandler struct {
	borrowerService portssvc.BorrowerSvcFacade
}

// newBorrowerHandler creates a new borrowerHandler.
func newBorrowerHandler(bs portssvc.BorrowerSvcFacade) *borrowerHandler {
	return &borrowerHandler{borrowerService: bs}
}

// registerBorrowerRoutes registers all borrower-related routes. Writes need
// the admin or loan_officer role; any staff role may read.
func registerBorrowerRoutes(rg *gin.RouterGroup, borrowerService portssvc.BorrowerSvcFacade) {
	h := newBorrowerHandler(borrowerService)

	writeRoles := middleware.RequireRoles(string(domain.RoleAdmin), string(domain.RoleLoanOfficer))

	borrowers := rg.Group("/borrowers")
	{
		borrowers.POST("", writeRoles, h.createBorrower)
		borrowers.GET("", h.listBorrowers)
		borrowers.GET("/:id", h.getBorrower)
		borrowers.DELETE("/:id", middleware.RequireRoles(string(domain.RoleAdmin)), h.deleteBorrower)
	}
}

// createBorrower godoc
// @Summary Register a borrower
// @Tags borrowers
// @Accept json
// @Produce json
// @Param borrower body dto.CreateBorrowerRequest true "Borrower details"
// @Success 201 {object} dto.BorrowerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /borrowers [post]
func (h *borrowerHandler) createBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(c)
	borrower, err := h.borrowerService.CreateBorrower(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Borrower registered", slog.String("borrower_id", borrower.BorrowerID))
	c.JSON(http.StatusCreated, dto.ToBorrowerResponse(borrower))
}

// listBorrowers godoc
// @Summary List borrowers
// @Tags borrowers
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size, max 100"
// @Success 200 {array} dto.BorrowerResponse
// @Security BearerAuth
// @Router /borrowers [get]
func (h *borrowerHandler) listBorrowers(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	borrowers, err := h.borrowerService.ListBorrowers(c.Request.Context(), offset, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBorrowerResponses(borrowers))
}

// getBorrower godoc
// @Summary Get a borrower by ID
// @Tags borrowers
// @Produce json
// @Param id path string true "Borrower ID"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 404 {object} map[string]string "Borrower not found"
// @Security BearerAuth
// @Router /borrowers/{id} [get]
func (h *borrowerHandler) getBorrower(c *gin.Context) {
	borrower, err := h.borrowerService.GetBorrowerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBorrowerResponse(borrower))
}

// deleteBorrower godoc
// @Summary Delete a borrower
// @Description Removes a borrower and, via cascade, the loans and payment history they own
// @Tags borrowers
// @Produce json
// @Param id path string true "Borrower ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Borrower not found"
// @Security BearerAuth
// @Router /borrowers/{id} [delete]
func (h *borrowerHandler) deleteBorrower(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	if err := h.borrowerService.DeleteBorrower(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karofin/loan_management_app/internal/core/domain"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/dto"
	"github.com/karofin/loan_management_app/internal/middleware"
)

// loanHandler handles HTTP requests related to loans and their lifecycle.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// RegisterLoanRoutes registers all loan-related routes. Application and
// approval decisions need the admin or loan_officer role; reads are open to
// all staff roles.
func RegisterLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	decisionRoles := middleware.RequireRoles(string(domain.RoleAdmin), string(domain.RoleLoanOfficer))

	loans := rg.Group("/loans")
	{
		loans.POST("", decisionRoles, h.applyLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:id", h.getLoan)
		loans.POST("/:id/approve", decisionRoles, h.approveLoan)
		loans.POST("/:id/reject", decisionRoles, h.rejectLoan)
	}

	loanTypes := rg.Group("/loan-types")
	{
		loanTypes.GET("", h.listLoanTypes)
	}
}

// applyLoan godoc
// @Summary Apply for a loan
// @Description Validates the application against the product catalog and creates a pending loan
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.ApplyLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input or catalog limit exceeded"
// @Failure 404 {object} map[string]string "Borrower or loan type not found"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) applyLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(c)
	loan, err := h.loanService.ApplyLoan(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Loan application accepted", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Tags loans
// @Produce json
// @Success 200 {array} dto.LoanResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	loans, err := h.loanService.ListLoans(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponses(loans))
}

// getLoan godoc
// @Summary Get a loan by ID
// @Description Returns the loan with its collaterals and full ledger
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// approveLoan godoc
// @Summary Approve and disburse a pending loan
// @Description Activates the loan, posts the disbursement to the ledger and materializes the repayment schedule
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not pending"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, _ := middleware.GetUserIDFromContext(c)
	loan, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Loan approved", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// rejectLoan godoc
// @Summary Reject a pending loan
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not pending"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id}/reject [post]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	actorID, _ := middleware.GetUserIDFromContext(c)
	loan, err := h.loanService.RejectLoan(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listLoanTypes godoc
// @Summary List the loan product catalog
// @Tags loans
// @Produce json
// @Success 200 {array} dto.LoanTypeResponse
// @Security BearerAuth
// @Router /loan-types [get]
func (h *loanHandler) listLoanTypes(c *gin.Context) {
	types, err := h.loanService.ListLoanTypes(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanTypeResponses(types))
}

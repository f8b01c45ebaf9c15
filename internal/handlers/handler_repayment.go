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

// repaymentHandler handles HTTP requests related to repayments and receipts.
type repaymentHandler struct {
	repaymentService portssvc.RepaymentSvcFacade
}

// newRepaymentHandler creates a new repaymentHandler.
func newRepaymentHandler(rs portssvc.RepaymentSvcFacade) *repaymentHandler {
	return &repaymentHandler{repaymentService: rs}
}

// registerRepaymentRoutes registers all repayment-related routes. Recording
// payments needs the admin or accountant role.
func registerRepaymentRoutes(rg *gin.RouterGroup, repaymentService portssvc.RepaymentSvcFacade) {
	h := newRepaymentHandler(repaymentService)

	payRoles := middleware.RequireRoles(string(domain.RoleAdmin), string(domain.RoleAccountant))

	rg.GET("/loans/:id/repayments", h.listRepayments)
	repayments := rg.Group("/repayments")
	{
		repayments.POST("/:id/pay", payRoles, h.payRepayment)
		repayments.GET("/:id/receipt", h.getReceipt)
	}
}

// listRepayments godoc
// @Summary List a loan's repayment schedule
// @Tags repayments
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {array} dto.RepaymentResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id}/repayments [get]
func (h *repaymentHandler) listRepayments(c *gin.Context) {
	repayments, err := h.repaymentService.ListRepaymentsForLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRepaymentResponses(repayments))
}

// payRepayment godoc
// @Summary Record a payment against a repayment
// @Description Applies the amount to the installment and the loan's outstanding balance, posts a ledger entry and issues a receipt on first payment
// @Tags repayments
// @Accept json
// @Produce json
// @Param id path string true "Repayment ID"
// @Param payment body dto.PayRepaymentRequest true "Payment amount"
// @Success 200 {object} dto.RepaymentResponse
// @Failure 400 {object} map[string]string "Non-positive amount"
// @Failure 404 {object} map[string]string "Repayment not found"
// @Security BearerAuth
// @Router /repayments/{id}/pay [post]
func (h *repaymentHandler) payRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PayRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(c)
	repayment, err := h.repaymentService.PayRepayment(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Payment recorded", slog.String("repayment_id", repayment.RepaymentID))
	c.JSON(http.StatusOK, dto.ToRepaymentResponse(repayment))
}

// getReceipt godoc
// @Summary Get the receipt for a repayment
// @Description Returns the receipt, creating a missing one for already-paid repayments
// @Tags repayments
// @Produce json
// @Param id path string true "Repayment ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} map[string]string "No payment recorded yet"
// @Failure 404 {object} map[string]string "Repayment not found"
// @Security BearerAuth
// @Router /repayments/{id}/receipt [get]
func (h *repaymentHandler) getReceipt(c *gin.Context) {
	receipt, err := h.repaymentService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

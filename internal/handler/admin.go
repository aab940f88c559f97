package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/service"
)

// AdminHandler handles admin HTTP requests for payment oversight.
type AdminHandler struct {
	paymentService *service.PaymentService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(paymentService *service.PaymentService) *AdminHandler {
	return &AdminHandler{paymentService: paymentService}
}

// ListPayments handles GET /admin/payments
func (h *AdminHandler) ListPayments(c *gin.Context) {
	txs, err := h.paymentService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	transactions := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		transactions = append(transactions, transactionResponse(tx))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":      true,
		"transactions": transactions,
	})
}

// ListPaymentsByBooking handles GET /admin/bookings/:id/payments
func (h *AdminHandler) ListPaymentsByBooking(c *gin.Context) {
	txs, err := h.paymentService.ListByBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	transactions := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		transactions = append(transactions, transactionResponse(tx))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":      true,
		"transactions": transactions,
	})
}

// CapturePayment handles POST /admin/payments/:id/capture
func (h *AdminHandler) CapturePayment(c *gin.Context) {
	tx, err := h.paymentService.Capture(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":        true,
		"transaction_id": tx.ID,
		"payment_status": string(tx.Status),
		"message":        "Zahlung erfolgreich erfasst",
	})
}

// CancelPayment handles POST /admin/payments/:id/cancel
func (h *AdminHandler) CancelPayment(c *gin.Context) {
	tx, err := h.paymentService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":        true,
		"transaction_id": tx.ID,
		"payment_status": string(tx.Status),
		"message":        "Zahlungsreservierung storniert",
	})
}

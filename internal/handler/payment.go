package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/domain"
	"taxi/internal/service"
)

// PaymentHandler handles HTTP requests for payment initiation and
// gateway confirmations.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePaymentRequest is the HTTP request body for initiating a payment.
type InitiatePaymentRequest struct {
	BookingID     string `json:"booking_id"`
	PaymentMethod string `json:"payment_method"`
}

// InitiatePaymentResponse is the HTTP response for payment initiation.
type InitiatePaymentResponse struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transaction_id"`
	SessionID     string  `json:"session_id"`
	PaymentURL    string  `json:"payment_url"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message"`
}

// InitiatePayment handles POST /payments/initiate
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tx, err := h.paymentService.Initiate(c.Request.Context(), service.InitiateRequest{
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, service.ErrPaymentAlreadyExists) && tx != nil {
			// The existing transaction is reported, never duplicated.
			c.JSON(http.StatusBadRequest, gin.H{
				"success":        false,
				"transaction_id": tx.ID,
				"message":        "Zahlung für diese Buchung bereits vorhanden",
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, InitiatePaymentResponse{
		Success:       true,
		TransactionID: tx.ID,
		SessionID:     tx.SessionID,
		PaymentURL:    tx.PaymentURL,
		Amount:        tx.Amount,
		Message:       "Zahlung initialisiert - Betrag wird reserviert (manuelle Autorisierung)",
	})
}

// GatewayWebhookRequest is the confirmation payload sent by the payment
// gateway after the customer completes checkout.
type GatewayWebhookRequest struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}

// GatewayWebhook handles POST /payments/webhook
func (h *PaymentHandler) GatewayWebhook(c *gin.Context) {
	var req GatewayWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tx, err := h.paymentService.GetBySessionID(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch req.Event {
	case "authorized":
		tx, err = h.paymentService.OnGatewayAuthorized(c.Request.Context(), tx.ID)
	case "failed":
		tx, err = h.paymentService.OnGatewayFailed(c.Request.Context(), tx.ID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown event, expected authorized or failed"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":        true,
		"transaction_id": tx.ID,
		"payment_status": string(tx.Status),
	})
}

// TransactionResponse is the HTTP representation of a payment transaction.
type TransactionResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	CaptureMethod string  `json:"capture_method"`
	PaymentStatus string  `json:"payment_status"`
	SessionID     string  `json:"session_id"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func transactionResponse(tx *domain.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		BookingID:     tx.BookingID,
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod,
		CaptureMethod: string(tx.CaptureMethod),
		PaymentStatus: string(tx.Status),
		SessionID:     tx.SessionID,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     tx.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

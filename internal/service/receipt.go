package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxi/internal/domain"
)

// Receipt is the customer-facing record of a captured payment.
type Receipt struct {
	ID             string
	BookingID      string
	TransactionID  string
	CustomerName   string
	CustomerEmail  string
	PickupLocation string
	Destination    string
	PickupDatetime time.Time
	Amount         float64
	PaymentMethod  string
	CreatedAt      time.Time
}

// ReceiptService generates receipts for captured payments.
type ReceiptService struct {
	notifier *NotificationService
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(notifier *NotificationService) *ReceiptService {
	return &ReceiptService{notifier: notifier}
}

// GenerateReceipt builds a receipt for a completed transaction and
// notifies the customer.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, booking *domain.Booking, tx *domain.PaymentTransaction) (*Receipt, error) {
	if booking == nil || tx == nil {
		return nil, ErrInvalidTransactionID
	}

	receipt := &Receipt{
		ID:             uuid.New().String(),
		BookingID:      booking.ID,
		TransactionID:  tx.ID,
		CustomerName:   booking.CustomerName,
		CustomerEmail:  booking.CustomerEmail,
		PickupLocation: booking.PickupLocation,
		Destination:    booking.Destination,
		PickupDatetime: booking.PickupDatetime,
		Amount:         tx.Amount,
		PaymentMethod:  tx.PaymentMethod,
		CreatedAt:      time.Now(),
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyReceiptReady(ctx, receipt)
	}

	return receipt, nil
}

// FormatReceipt formats the receipt as plain text (for email/print).
func (s *ReceiptService) FormatReceipt(receipt *Receipt) string {
	return `
=====================================
          FAHRQUITTUNG
=====================================
Quittung:   ` + receipt.ID + `
Buchung:    ` + receipt.BookingID + `
Datum:      ` + receipt.CreatedAt.Format("02.01.2006 15:04") + `

FAHRT
-------------------------------------
Abholung:   ` + receipt.PickupLocation + `
Ziel:       ` + receipt.Destination + `
Abfahrt:    ` + receipt.PickupDatetime.Format("02.01.2006 15:04") + `

ZAHLUNG
-------------------------------------
Betrag:     CHF ` + fmt.Sprintf("%.2f", receipt.Amount) + `
Methode:    ` + receipt.PaymentMethod + `

=====================================
   Vielen Dank für Ihre Fahrt!
=====================================
`
}

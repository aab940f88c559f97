package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taxi/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmation NotificationType = "BOOKING_CONFIRMATION"
	NotificationBookingStatus       NotificationType = "BOOKING_STATUS"
	NotificationPaymentAuthorized   NotificationType = "PAYMENT_AUTHORIZED"
	NotificationPaymentCaptured     NotificationType = "PAYMENT_CAPTURED"
	NotificationPaymentCancelled    NotificationType = "PAYMENT_CANCELLED"
	NotificationReceiptReady        NotificationType = "RECEIPT_READY"
	NotificationPasswordReset       NotificationType = "PASSWORD_RESET"
)

// Notification represents a customer notification to be sent.
type Notification struct {
	Type           NotificationType
	RecipientEmail string
	Subject        string
	Message        string
	Data           map[string]interface{}
	CreatedAt      time.Time
}

// NotificationService handles customer notification delivery.
type NotificationService struct {
	// In a real system, this would carry an SMTP or transactional email
	// client. Delivery here is log-only.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmation sends the booking confirmation email.
func (s *NotificationService) NotifyBookingConfirmation(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:           NotificationBookingConfirmation,
		RecipientEmail: booking.CustomerEmail,
		Subject:        "Ihre Buchung ist eingegangen",
		Message: fmt.Sprintf("Fahrt %s nach %s am %s, Fahrpreis CHF %.2f",
			booking.PickupLocation, booking.Destination,
			booking.PickupDatetime.Format("02.01.2006 15:04"), booking.TotalFare),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"total_fare": booking.TotalFare,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyBookingStatusChanged informs the customer of an admin status update.
func (s *NotificationService) NotifyBookingStatusChanged(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:           NotificationBookingStatus,
		RecipientEmail: booking.CustomerEmail,
		Subject:        "Buchungsstatus aktualisiert",
		Message:        fmt.Sprintf("Ihre Buchung ist jetzt: %s", booking.Status),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"status":     string(booking.Status),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentAuthorized informs the customer that funds were reserved.
func (s *NotificationService) NotifyPaymentAuthorized(ctx context.Context, booking *domain.Booking, tx *domain.PaymentTransaction) error {
	notification := Notification{
		Type:           NotificationPaymentAuthorized,
		RecipientEmail: booking.CustomerEmail,
		Subject:        "Zahlung reserviert",
		Message:        fmt.Sprintf("CHF %.2f wurden reserviert und werden bei Fahrtende belastet.", tx.Amount),
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentCaptured informs the customer of a settled payment.
func (s *NotificationService) NotifyPaymentCaptured(ctx context.Context, booking *domain.Booking, tx *domain.PaymentTransaction) error {
	notification := Notification{
		Type:           NotificationPaymentCaptured,
		RecipientEmail: booking.CustomerEmail,
		Subject:        "Zahlung erfolgreich",
		Message:        fmt.Sprintf("CHF %.2f wurden erfolgreich belastet. Vielen Dank!", tx.Amount),
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentCancelled informs the customer of a released reservation.
func (s *NotificationService) NotifyPaymentCancelled(ctx context.Context, booking *domain.Booking, tx *domain.PaymentTransaction) error {
	notification := Notification{
		Type:           NotificationPaymentCancelled,
		RecipientEmail: booking.CustomerEmail,
		Subject:        "Zahlung storniert",
		Message:        fmt.Sprintf("Die Reservierung über CHF %.2f wurde freigegeben.", tx.Amount),
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyReceiptReady informs the customer that their receipt is ready.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *Receipt) error {
	notification := Notification{
		Type:           NotificationReceiptReady,
		RecipientEmail: receipt.CustomerEmail,
		Subject:        "Ihre Quittung",
		Message:        fmt.Sprintf("Ihre Quittung über CHF %.2f liegt bereit.", receipt.Amount),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"booking_id": receipt.BookingID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPasswordResetCode delivers a password reset code to the admin.
// The code itself never appears in the response of the HTTP endpoint
// that triggered it; this out-of-band delivery is the only channel.
func (s *NotificationService) NotifyPasswordResetCode(ctx context.Context, email, code string) error {
	notification := Notification{
		Type:           NotificationPasswordReset,
		RecipientEmail: email,
		Subject:        "Passwort zurücksetzen",
		Message:        fmt.Sprintf("Ihr Bestätigungscode lautet: %s (15 Minuten gültig)", code),
		Data: map[string]interface{}{
			"code": code,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Subject=%s, Message=%s",
		notification.Type, notification.RecipientEmail, notification.Subject, notification.Message)
	return nil
}

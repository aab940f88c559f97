package domain

import "time"

// PaymentStatus represents the current status of a payment transaction.
type PaymentStatus string

const (
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// paymentTransitions is the single source of truth for legal status
// edges. Anything not listed here is rejected.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusProcessing: {PaymentStatusAuthorized, PaymentStatusFailed},
	PaymentStatusAuthorized: {PaymentStatusCompleted, PaymentStatusCancelled},
}

// CanTransition reports whether moving from s to next is a legal edge.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a terminal status.
func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

// CaptureMethod describes how authorized funds are settled.
type CaptureMethod string

// CaptureMethodManual means funds are reserved at authorization and
// settled only by an explicit admin capture.
const CaptureMethodManual CaptureMethod = "manual"

// PaymentTransaction is a single payment attempt for a booking. Amount is
// copied from the booking's fare at initiation and never changes
// afterwards; the record is kept as an audit trail after terminal states.
type PaymentTransaction struct {
	ID            string
	BookingID     string
	Amount        float64
	PaymentMethod string
	CaptureMethod CaptureMethod
	Status        PaymentStatus
	SessionID     string
	PaymentURL    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

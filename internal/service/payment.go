package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"taxi/internal/domain"
	"taxi/internal/redis"
	"taxi/internal/repository"
)

const (
	initiateLockTTL = 10 * time.Second
	settleLockTTL   = 30 * time.Second

	fareCurrency = "CHF"
)

// PaymentService drives the payment transaction state machine:
// processing -> authorized -> completed or cancelled, with processing ->
// failed when the gateway rejects authorization.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	gateway     PaymentGateway
	lockStore   redis.LockStoreInterface
	notifier    *NotificationService
	receipts    *ReceiptService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gateway PaymentGateway,
	lockStore redis.LockStoreInterface,
	notifier *NotificationService,
	receipts *ReceiptService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		lockStore:   lockStore,
		notifier:    notifier,
		receipts:    receipts,
	}
}

// InitiateRequest contains the parameters for initiating a payment.
type InitiateRequest struct {
	BookingID     string
	PaymentMethod string
}

// Initiate opens a payment transaction for a booking. The amount is
// snapshotted from the booking's fare at this moment and never changes
// afterwards, regardless of later booking updates.
//
// At most one active transaction may exist per booking. If one already
// exists, the existing transaction is returned together with
// ErrPaymentAlreadyExists instead of creating a duplicate.
func (s *PaymentService) Initiate(ctx context.Context, req InitiateRequest) (*domain.PaymentTransaction, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.PaymentMethod == "" {
		return nil, ErrInvalidPaymentMethod
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// The booking lock keeps concurrent initiations from each opening a
	// gateway session. The store's uniqueness on active transactions is
	// the actual invariant; the lock only narrows the race window.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireBookingLock(ctx, req.BookingID, initiateLockTTL)
		if err == nil && locked {
			defer s.lockStore.ReleaseBookingLock(ctx, req.BookingID)
		}
	}

	existing, err := s.paymentRepo.GetActiveByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrPaymentAlreadyExists
	}

	session, err := s.gateway.CreateSession(ctx, booking.ID, booking.TotalFare, fareCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	now := time.Now()
	tx := &domain.PaymentTransaction{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		Amount:        booking.TotalFare,
		PaymentMethod: req.PaymentMethod,
		CaptureMethod: domain.CaptureMethodManual,
		Status:        domain.PaymentStatusProcessing,
		SessionID:     session.SessionID,
		PaymentURL:    session.PaymentURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.paymentRepo.Create(ctx, tx); err != nil {
		if err == repository.ErrDuplicate {
			// Lost the race: another initiate inserted first. Return its
			// transaction so both callers observe the same result.
			winner, lookupErr := s.paymentRepo.GetActiveByBookingID(ctx, req.BookingID)
			if lookupErr == nil && winner != nil {
				return winner, ErrPaymentAlreadyExists
			}
		}
		return nil, err
	}

	s.mirrorBookingStatus(ctx, booking.ID, domain.BookingPaymentProcessing)

	return tx, nil
}

// OnGatewayAuthorized records a gateway authorization confirmation,
// moving the transaction from processing to authorized.
func (s *PaymentService) OnGatewayAuthorized(ctx context.Context, transactionID string) (*domain.PaymentTransaction, error) {
	return s.confirm(ctx, transactionID, domain.PaymentStatusAuthorized, domain.BookingPaymentAuthorized)
}

// OnGatewayFailed records a gateway authorization rejection, moving the
// transaction from processing to the terminal failed state.
func (s *PaymentService) OnGatewayFailed(ctx context.Context, transactionID string) (*domain.PaymentTransaction, error) {
	return s.confirm(ctx, transactionID, domain.PaymentStatusFailed, domain.BookingPaymentFailed)
}

func (s *PaymentService) confirm(ctx context.Context, transactionID string, to domain.PaymentStatus, mirror domain.BookingPaymentStatus) (*domain.PaymentTransaction, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}

	tx, err := s.paymentRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.Status.CanTransition(to) {
		return nil, ErrNotProcessing
	}

	// CAS on the observed status: if another confirmation slipped in
	// between the read and the write, the row is no longer there.
	if err := s.paymentRepo.UpdateStatusFrom(ctx, transactionID, tx.Status, to); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, ErrNotProcessing
		}
		return nil, err
	}

	tx.Status = to
	tx.UpdatedAt = time.Now()

	s.mirrorBookingStatus(ctx, tx.BookingID, mirror)

	if s.notifier != nil && to == domain.PaymentStatusAuthorized {
		s.notifyForBooking(ctx, tx, func(booking *domain.Booking) {
			_ = s.notifier.NotifyPaymentAuthorized(ctx, booking, tx)
		})
	}

	return tx, nil
}

// GetBySessionID resolves a transaction from its gateway session
// reference, used by the gateway webhook.
func (s *PaymentService) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	if sessionID == "" {
		return nil, ErrInvalidTransactionID
	}
	return s.paymentRepo.GetBySessionID(ctx, sessionID)
}

// Capture settles an authorized transaction. Only authorized
// transactions can be captured; anything else fails with ErrNotAuthorized
// so that capture and cancel stay mutually exclusive terminal operations.
func (s *PaymentService) Capture(ctx context.Context, transactionID string) (*domain.PaymentTransaction, error) {
	return s.settle(ctx, transactionID, domain.PaymentStatusCompleted)
}

// Cancel releases an authorized reservation. Same precondition and
// failure contract as Capture.
func (s *PaymentService) Cancel(ctx context.Context, transactionID string) (*domain.PaymentTransaction, error) {
	return s.settle(ctx, transactionID, domain.PaymentStatusCancelled)
}

func (s *PaymentService) settle(ctx context.Context, transactionID string, to domain.PaymentStatus) (*domain.PaymentTransaction, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}

	// Serialize capture and cancel on the same transaction. If the lock
	// is held, the other operation is mid-flight; re-reading tells us
	// whether it already reached a terminal state.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTransactionLock(ctx, transactionID, settleLockTTL)
		if err == nil {
			if !locked {
				tx, lookupErr := s.paymentRepo.GetByID(ctx, transactionID)
				if lookupErr == nil && tx.Status.Terminal() {
					return nil, ErrNotAuthorized
				}
				return nil, ErrPaymentLocked
			}
			defer s.lockStore.ReleaseTransactionLock(ctx, transactionID)
		}
	}

	tx, err := s.paymentRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !tx.Status.CanTransition(to) {
		return nil, ErrNotAuthorized
	}

	// Gateway first, then the durable state write: a transition only
	// exists once the store acknowledges it. If the gateway call went
	// through but the conditional write loses a race, the conflict is
	// surfaced to the caller for reconciliation instead of being
	// swallowed.
	switch to {
	case domain.PaymentStatusCompleted:
		err = s.gateway.Capture(ctx, tx.SessionID)
	case domain.PaymentStatusCancelled:
		err = s.gateway.Release(ctx, tx.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.paymentRepo.UpdateStatusFrom(ctx, transactionID, tx.Status, to); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	tx.Status = to
	tx.UpdatedAt = time.Now()

	mirror := domain.BookingPaymentPaid
	if to == domain.PaymentStatusCancelled {
		mirror = domain.BookingPaymentCancelled
	}
	s.mirrorBookingStatus(ctx, tx.BookingID, mirror)

	s.notifyForBooking(ctx, tx, func(booking *domain.Booking) {
		if to == domain.PaymentStatusCompleted {
			if s.notifier != nil {
				_ = s.notifier.NotifyPaymentCaptured(ctx, booking, tx)
			}
			if s.receipts != nil {
				_, _ = s.receipts.GenerateReceipt(ctx, booking, tx)
			}
		} else if s.notifier != nil {
			_ = s.notifier.NotifyPaymentCancelled(ctx, booking, tx)
		}
	})

	return tx, nil
}

// Get retrieves a transaction by ID.
func (s *PaymentService) Get(ctx context.Context, transactionID string) (*domain.PaymentTransaction, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	return s.paymentRepo.GetByID(ctx, transactionID)
}

// ListByBooking retrieves all transactions for a booking.
func (s *PaymentService) ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentTransaction, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}

// ListAll retrieves every transaction.
func (s *PaymentService) ListAll(ctx context.Context) ([]*domain.PaymentTransaction, error) {
	return s.paymentRepo.ListAll(ctx)
}

// mirrorBookingStatus reflects a transaction state onto the owning
// booking. Failures here never roll back the payment transition; the
// mirror catches up on the next transition.
func (s *PaymentService) mirrorBookingStatus(ctx context.Context, bookingID string, status domain.BookingPaymentStatus) {
	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, status); err != nil {
		log.Printf("payment: failed to mirror status %s onto booking %s: %v", status, bookingID, err)
	}
}

func (s *PaymentService) notifyForBooking(ctx context.Context, tx *domain.PaymentTransaction, fn func(*domain.Booking)) {
	booking, err := s.bookingRepo.GetByID(ctx, tx.BookingID)
	if err != nil {
		return
	}
	fn(booking)
}

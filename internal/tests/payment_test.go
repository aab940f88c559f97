package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"taxi/internal/domain"
	"taxi/internal/repository"
	"taxi/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT FIXTURE
// ──────────────────────────────────────────────

type paymentFixture struct {
	bookingRepo *MockBookingRepository
	paymentRepo *MockPaymentRepository
	gateway     *MockPaymentGateway
	locks       *MockLockStore
	svc         *service.PaymentService
	booking     *domain.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockPaymentGateway()
	locks := NewMockLockStore()
	notifier := service.NewNotificationService()
	receipts := service.NewReceiptService(notifier)

	booking := &domain.Booking{
		ID:             "booking-1",
		CustomerName:   "Anna Keller",
		CustomerEmail:  "anna.keller@example.ch",
		PickupLocation: "Luzern",
		Destination:    "Zürich",
		PickupDatetime: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		PassengerCount: 2,
		VehicleType:    domain.VehicleTypeStandard,
		TotalFare:      242.02,
		Status:         domain.BookingStatusConfirmed,
		PaymentStatus:  domain.BookingPaymentPending,
	}
	bookingRepo.AddBooking(booking)

	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, locks, notifier, receipts)

	return &paymentFixture{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		locks:       locks,
		svc:         svc,
		booking:     booking,
	}
}

// initiateAuthorized initiates a payment and confirms authorization,
// returning the transaction in authorized state.
func (f *paymentFixture) initiateAuthorized(t *testing.T) *domain.PaymentTransaction {
	t.Helper()

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	tx, err = f.svc.OnGatewayAuthorized(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	return tx
}

// ──────────────────────────────────────────────
// 1. INITIATION
// ──────────────────────────────────────────────

func TestPaymentInitiate_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if tx.ID == "" {
		t.Error("expected transaction ID to be set")
	}
	if tx.Status != domain.PaymentStatusProcessing {
		t.Errorf("expected processing status, got %s", tx.Status)
	}
	if tx.Amount != f.booking.TotalFare {
		t.Errorf("expected amount %v snapshotted from booking, got %v", f.booking.TotalFare, tx.Amount)
	}
	if tx.CaptureMethod != domain.CaptureMethodManual {
		t.Errorf("expected manual capture method, got %s", tx.CaptureMethod)
	}
	if tx.SessionID == "" || tx.PaymentURL == "" {
		t.Error("expected gateway session reference on the transaction")
	}

	if got := f.bookingRepo.GetBooking(f.booking.ID).PaymentStatus; got != domain.BookingPaymentProcessing {
		t.Errorf("expected booking payment status mirrored to processing, got %s", got)
	}
}

func TestPaymentInitiate_MissingBooking_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	_, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     "no-such-booking",
		PaymentMethod: "card",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if f.gateway.CreateSessionCallCount != 0 {
		t.Error("expected no gateway session for unknown booking")
	}
}

func TestPaymentInitiate_ValidationErrors(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	_, err := f.svc.Initiate(context.Background(), service.InitiateRequest{PaymentMethod: "card"})
	if !errors.Is(err, service.ErrInvalidBookingID) {
		t.Errorf("expected ErrInvalidBookingID, got: %v", err)
	}

	_, err = f.svc.Initiate(context.Background(), service.InitiateRequest{BookingID: f.booking.ID})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got: %v", err)
	}
}

func TestPaymentInitiate_DuplicateReturnsExisting(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	first, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("first initiate: %v", err)
	}

	second, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if !errors.Is(err, service.ErrPaymentAlreadyExists) {
		t.Fatalf("expected ErrPaymentAlreadyExists, got: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Error("expected the existing transaction to be returned")
	}
	if f.gateway.CreateSessionCallCount != 1 {
		t.Errorf("expected a single gateway session, got %d", f.gateway.CreateSessionCallCount)
	}
	if f.paymentRepo.CountTransactions() != 1 {
		t.Errorf("expected a single persisted transaction, got %d", f.paymentRepo.CountTransactions())
	}
}

func TestPaymentInitiate_ConcurrentRequests_SingleActiveTransaction(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	const workers = 20
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
				BookingID:     f.booking.ID,
				PaymentMethod: "card",
			})
			if err != nil && !errors.Is(err, service.ErrPaymentAlreadyExists) {
				t.Errorf("worker %d: unexpected error: %v", n, err)
				return
			}
			if tx != nil {
				ids[n] = tx.ID
			}
		}(i)
	}
	wg.Wait()

	if got := f.paymentRepo.CountActiveForBooking(f.booking.ID); got != 1 {
		t.Fatalf("expected exactly one active transaction, got %d", got)
	}

	// Every caller that got a transaction back got the same one.
	var winner string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if winner == "" {
			winner = id
		} else if id != winner {
			t.Fatalf("two different transactions observed: %s and %s", winner, id)
		}
	}
}

func TestPaymentInitiate_GatewayDown_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.gateway.SetCreateSessionError(ErrMockGatewayDown)

	_, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if !errors.Is(err, service.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %v", err)
	}
	if f.paymentRepo.CountTransactions() != 0 {
		t.Error("expected no transaction persisted when the gateway is down")
	}
	if got := f.bookingRepo.GetBooking(f.booking.ID).PaymentStatus; got != domain.BookingPaymentPending {
		t.Errorf("expected booking payment status untouched, got %s", got)
	}
}

func TestPaymentAmount_ImmutableAfterInitiation(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	snapshot := tx.Amount

	// Fare on the booking changes after initiation.
	f.bookingRepo.GetBooking(f.booking.ID).TotalFare = 999.99

	if _, err := f.svc.OnGatewayAuthorized(context.Background(), tx.ID); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	captured, err := f.svc.Capture(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	if captured.Amount != snapshot {
		t.Errorf("expected amount %v to stay snapshotted, got %v", snapshot, captured.Amount)
	}
}

// ──────────────────────────────────────────────
// 2. GATEWAY CONFIRMATION
// ──────────────────────────────────────────────

func TestPaymentAuthorize_FromProcessing_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	authorized, err := f.svc.OnGatewayAuthorized(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if authorized.Status != domain.PaymentStatusAuthorized {
		t.Errorf("expected authorized status, got %s", authorized.Status)
	}
	if got := f.bookingRepo.GetBooking(f.booking.ID).PaymentStatus; got != domain.BookingPaymentAuthorized {
		t.Errorf("expected booking mirror authorized, got %s", got)
	}
}

func TestPaymentAuthorize_Twice_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	_, err := f.svc.OnGatewayAuthorized(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrNotProcessing) {
		t.Errorf("expected ErrNotProcessing on duplicate confirmation, got: %v", err)
	}
}

func TestPaymentFailed_TerminalAndAllowsRetry(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	failed, err := f.svc.OnGatewayFailed(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if failed.Status != domain.PaymentStatusFailed {
		t.Errorf("expected failed status, got %s", failed.Status)
	}
	if !failed.Status.Terminal() {
		t.Error("expected failed to be terminal")
	}

	// Capture of a failed transaction is rejected.
	if _, err := f.svc.Capture(context.Background(), tx.ID); !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got: %v", err)
	}

	// The booking may start a fresh payment once the old one is terminal.
	retry, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
	if retry.ID == tx.ID {
		t.Error("expected a new transaction for the retry")
	}
}

func TestPaymentConfirm_TerminalTransaction_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	if _, err := f.svc.Capture(context.Background(), tx.ID); err != nil {
		t.Fatalf("capture: %v", err)
	}

	// A late gateway confirmation for a settled transaction hits the
	// transition table and is rejected without touching the row.
	if _, err := f.svc.OnGatewayAuthorized(context.Background(), tx.ID); !errors.Is(err, service.ErrNotProcessing) {
		t.Errorf("expected ErrNotProcessing, got: %v", err)
	}
	if _, err := f.svc.OnGatewayFailed(context.Background(), tx.ID); !errors.Is(err, service.ErrNotProcessing) {
		t.Errorf("expected ErrNotProcessing, got: %v", err)
	}
	if got := f.paymentRepo.GetTransaction(tx.ID).Status; got != domain.PaymentStatusCompleted {
		t.Errorf("expected status to stay completed, got %s", got)
	}
}

func TestPaymentGetBySessionID(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	found, err := f.svc.GetBySessionID(context.Background(), tx.SessionID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if found.ID != tx.ID {
		t.Errorf("expected transaction %s, got %s", tx.ID, found.ID)
	}

	if _, err := f.svc.GetBySessionID(context.Background(), "cs_unknown"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown session, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. CAPTURE AND CANCEL
// ──────────────────────────────────────────────

func TestPaymentCapture_FromAuthorized_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	captured, err := f.svc.Capture(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if captured.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed status, got %s", captured.Status)
	}
	if f.gateway.CaptureCallCount != 1 {
		t.Errorf("expected one gateway capture call, got %d", f.gateway.CaptureCallCount)
	}
	if got := f.bookingRepo.GetBooking(f.booking.ID).PaymentStatus; got != domain.BookingPaymentPaid {
		t.Errorf("expected booking mirror paid, got %s", got)
	}
}

func TestPaymentCapture_FromProcessing_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	tx, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	_, err = f.svc.Capture(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got: %v", err)
	}
	if !strings.Contains(err.Error(), "payment not in authorized state") {
		t.Errorf("unexpected error message: %v", err)
	}
	if f.gateway.CaptureCallCount != 0 {
		t.Error("expected no gateway call for an unauthorized capture")
	}
}

func TestPaymentCancel_FromAuthorized_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	cancelled, err := f.svc.Cancel(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cancelled.Status != domain.PaymentStatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
	if f.gateway.ReleaseCallCount != 1 {
		t.Errorf("expected one gateway release call, got %d", f.gateway.ReleaseCallCount)
	}
	if got := f.bookingRepo.GetBooking(f.booking.ID).PaymentStatus; got != domain.BookingPaymentCancelled {
		t.Errorf("expected booking mirror cancelled, got %s", got)
	}
}

func TestPaymentCaptureThenCancel_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	if _, err := f.svc.Capture(context.Background(), tx.ID); err != nil {
		t.Fatalf("capture: %v", err)
	}

	_, err := f.svc.Cancel(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized after capture, got: %v", err)
	}
	if f.gateway.ReleaseCallCount != 0 {
		t.Error("expected no gateway release after capture")
	}
	if got := f.paymentRepo.GetTransaction(tx.ID).Status; got != domain.PaymentStatusCompleted {
		t.Errorf("expected status to stay completed, got %s", got)
	}
}

func TestPaymentCancelThenCapture_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	if _, err := f.svc.Cancel(context.Background(), tx.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := f.svc.Capture(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized after cancel, got: %v", err)
	}
	if got := f.paymentRepo.GetTransaction(tx.ID).Status; got != domain.PaymentStatusCancelled {
		t.Errorf("expected status to stay cancelled, got %s", got)
	}
}

func TestPaymentCaptureAndCancel_Concurrent_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	var wg sync.WaitGroup
	var captureErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, captureErr = f.svc.Capture(context.Background(), tx.ID)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = f.svc.Cancel(context.Background(), tx.ID)
	}()
	wg.Wait()

	successes := 0
	if captureErr == nil {
		successes++
	}
	if cancelErr == nil {
		successes++
	}
	if successes != 1 {
		t.Fatalf("expected exactly one of capture/cancel to succeed, got %d (capture: %v, cancel: %v)",
			successes, captureErr, cancelErr)
	}

	final := f.paymentRepo.GetTransaction(tx.ID).Status
	if !final.Terminal() {
		t.Errorf("expected a terminal final status, got %s", final)
	}
	if f.gateway.CaptureCallCount+f.gateway.ReleaseCallCount != 1 {
		t.Errorf("expected a single gateway settlement call, got capture=%d release=%d",
			f.gateway.CaptureCallCount, f.gateway.ReleaseCallCount)
	}
}

func TestPaymentCapture_LockHeld_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)

	// Another settle operation holds the transaction lock.
	if locked, _ := f.locks.AcquireTransactionLock(context.Background(), tx.ID, time.Minute); !locked {
		t.Fatal("setup: could not take transaction lock")
	}

	_, err := f.svc.Capture(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrPaymentLocked) {
		t.Errorf("expected ErrPaymentLocked, got: %v", err)
	}
	if got := f.paymentRepo.GetTransaction(tx.ID).Status; got != domain.PaymentStatusAuthorized {
		t.Errorf("expected status to stay authorized, got %s", got)
	}
}

func TestPaymentCapture_GatewayError_KeepsAuthorization(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	tx := f.initiateAuthorized(t)
	f.gateway.CaptureError = ErrMockGatewayDown

	_, err := f.svc.Capture(context.Background(), tx.ID)
	if !errors.Is(err, service.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %v", err)
	}
	if got := f.paymentRepo.GetTransaction(tx.ID).Status; got != domain.PaymentStatusAuthorized {
		t.Errorf("expected status to stay authorized after gateway error, got %s", got)
	}

	// The reservation can still be settled once the gateway recovers.
	f.gateway.CaptureError = nil
	if _, err := f.svc.Capture(context.Background(), tx.ID); err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 4. LISTING AND LOOKUP
// ──────────────────────────────────────────────

func TestPaymentListByBooking(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	// A failed attempt followed by a successful one leaves two records.
	first, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if _, err := f.svc.OnGatewayFailed(context.Background(), first.ID); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if _, err := f.svc.Initiate(context.Background(), service.InitiateRequest{
		BookingID:     f.booking.ID,
		PaymentMethod: "twint",
	}); err != nil {
		t.Fatalf("second initiate: %v", err)
	}

	txs, err := f.svc.ListByBooking(context.Background(), f.booking.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("expected 2 transactions in the audit trail, got %d", len(txs))
	}
}

func TestPaymentStateMachine_Edges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    domain.PaymentStatus
		to      domain.PaymentStatus
		allowed bool
	}{
		{domain.PaymentStatusProcessing, domain.PaymentStatusAuthorized, true},
		{domain.PaymentStatusProcessing, domain.PaymentStatusFailed, true},
		{domain.PaymentStatusProcessing, domain.PaymentStatusCompleted, false},
		{domain.PaymentStatusAuthorized, domain.PaymentStatusCompleted, true},
		{domain.PaymentStatusAuthorized, domain.PaymentStatusCancelled, true},
		{domain.PaymentStatusAuthorized, domain.PaymentStatusFailed, false},
		{domain.PaymentStatusCompleted, domain.PaymentStatusCancelled, false},
		{domain.PaymentStatusCancelled, domain.PaymentStatusAuthorized, false},
		{domain.PaymentStatusFailed, domain.PaymentStatusProcessing, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}

	for _, s := range []domain.PaymentStatus{
		domain.PaymentStatusCompleted,
		domain.PaymentStatusCancelled,
		domain.PaymentStatusFailed,
	} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []domain.PaymentStatus{
		domain.PaymentStatusProcessing,
		domain.PaymentStatusAuthorized,
	} {
		if s.Terminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

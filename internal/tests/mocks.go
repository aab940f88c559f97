package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"taxi/internal/domain"
	"taxi/internal/redis"
	"taxi/internal/repository"
	"taxi/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount              int32
	UpdateStatusCallCount        int32
	UpdatePaymentStatusCallCount int32

	// Error injection
	CreateError              error
	UpdateStatusError        error
	UpdatePaymentStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if filter.Email != "" && b.CustomerEmail != filter.Email {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	return nil
}

func (m *MockBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.BookingPaymentStatus) error {
	atomic.AddInt32(&m.UpdatePaymentStatusCallCount, 1)
	if m.UpdatePaymentStatusError != nil {
		return m.UpdatePaymentStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.PaymentStatus = status
	return nil
}

// GetBooking returns booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// It enforces the same invariants as the Postgres implementation: at most
// one active transaction per booking, and compare-and-swap status writes.
type MockPaymentRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.PaymentTransaction

	// Counters for verification
	CreateCallCount           int32
	UpdateStatusFromCallCount int32

	// Error injection
	CreateError           error
	UpdateStatusFromError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		transactions: make(map[string]*domain.PaymentTransaction),
	}
}

// AddTransaction adds a transaction to the mock repository.
func (m *MockPaymentRepository) AddTransaction(tx *domain.PaymentTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.transactions {
		if existing.BookingID == tx.BookingID && !existing.Status.Terminal() {
			return repository.ErrDuplicate
		}
	}
	copy := *tx
	m.transactions[tx.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tx
	return &copy, nil
}

func (m *MockPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.SessionID == sessionID {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetActiveByBookingID(ctx context.Context, bookingID string) (*domain.PaymentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID && !tx.Status.Terminal() {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, nil // No active transaction.
}

func (m *MockPaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PaymentTransaction, 0)
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID {
			copy := *tx
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) ListAll(ctx context.Context) ([]*domain.PaymentTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PaymentTransaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		copy := *tx
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	atomic.AddInt32(&m.UpdateStatusFromCallCount, 1)
	if m.UpdateStatusFromError != nil {
		return m.UpdateStatusFromError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if tx.Status != from {
		return repository.ErrStaleStatus
	}
	tx.Status = to
	tx.UpdatedAt = time.Now()
	return nil
}

// GetTransaction returns transaction for test assertions.
func (m *MockPaymentRepository) GetTransaction(id string) *domain.PaymentTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions[id]
}

// CountTransactions returns the number of transactions.
func (m *MockPaymentRepository) CountTransactions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

// CountActiveForBooking counts non-terminal transactions for a booking.
func (m *MockPaymentRepository) CountActiveForBooking(bookingID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID && !tx.Status.Terminal() {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:payment:booking:"+bookingID, ttl)
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	return m.release("lock:payment:booking:" + bookingID)
}

func (m *MockLockStore) AcquireTransactionLock(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:payment:tx:"+transactionID, ttl)
}

func (m *MockLockStore) ReleaseTransactionLock(ctx context.Context, transactionID string) error {
	return m.release("lock:payment:tx:" + transactionID)
}

// IsLocked checks if a key is locked (for test assertions).
func (m *MockLockStore) IsLocked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[key]
	return exists && time.Now().Before(expiry)
}

// ClearLocks clears all locks (for test cleanup).
func (m *MockLockStore) ClearLocks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks = make(map[string]time.Time)
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*redis.AdminSession

	// Error injection
	PutError error
	GetError error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*redis.AdminSession),
	}
}

func (m *MockSessionStore) Put(ctx context.Context, token string, session *redis.AdminSession) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = session
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*redis.AdminSession, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil // Expired or unknown token, not an error.
	}
	copy := *session
	return &copy, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// CountSessions returns the number of stored sessions.
func (m *MockSessionStore) CountSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ──────────────────────────────────────────────
// MOCK RESET STORE
// ──────────────────────────────────────────────

// MockResetStore is a mock implementation of ResetStoreInterface.
type MockResetStore struct {
	mu     sync.RWMutex
	codes  map[string]string
	tokens map[string]string

	// Error injection
	PutCodeError  error
	PutTokenError error
}

// NewMockResetStore creates a new mock reset store.
func NewMockResetStore() *MockResetStore {
	return &MockResetStore{
		codes:  make(map[string]string),
		tokens: make(map[string]string),
	}
}

func (m *MockResetStore) PutCode(ctx context.Context, username, code string) error {
	if m.PutCodeError != nil {
		return m.PutCodeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[username] = code
	return nil
}

func (m *MockResetStore) GetCode(ctx context.Context, username string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[username], nil
}

func (m *MockResetStore) DeleteCode(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, username)
	return nil
}

func (m *MockResetStore) PutToken(ctx context.Context, token, username string) error {
	if m.PutTokenError != nil {
		return m.PutTokenError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = username
	return nil
}

func (m *MockResetStore) GetToken(ctx context.Context, token string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[token], nil
}

func (m *MockResetStore) DeleteToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// IssuedCode returns the last code stored for a username (for test
// assertions; real delivery happens out of band).
func (m *MockResetStore) IssuedCode(username string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[username]
}

// CountCodes returns the number of pending reset codes.
func (m *MockResetStore) CountCodes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.codes)
}

// CountTokens returns the number of outstanding reset tokens.
func (m *MockResetStore) CountTokens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockPaymentGateway is a mock payment gateway with controllable failures.
type MockPaymentGateway struct {
	mu sync.Mutex

	// Control behavior
	CreateSessionError error
	CaptureError       error
	ReleaseError       error

	// Counters
	CreateSessionCallCount int32
	CaptureCallCount       int32
	ReleaseCallCount       int32

	sessionSeq int32
}

// NewMockPaymentGateway creates a new mock payment gateway.
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) CreateSession(ctx context.Context, bookingID string, amount float64, currency string) (*service.GatewaySession, error) {
	atomic.AddInt32(&m.CreateSessionCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	m.sessionSeq++
	sessionID := "cs_test_" + bookingID + "_" + string(rune('a'+m.sessionSeq%26))
	return &service.GatewaySession{
		SessionID:  sessionID,
		PaymentURL: "https://checkout.test/" + sessionID,
	}, nil
}

func (m *MockPaymentGateway) Capture(ctx context.Context, sessionID string) error {
	atomic.AddInt32(&m.CaptureCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CaptureError
}

func (m *MockPaymentGateway) Release(ctx context.Context, sessionID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReleaseError
}

// SetCreateSessionError configures session creation to fail.
func (m *MockPaymentGateway) SetCreateSessionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateSessionError = err
}

// ──────────────────────────────────────────────
// MOCK ROUTE PROVIDER
// ──────────────────────────────────────────────

// MockRouteProvider is a mock implementation of RouteProvider.
type MockRouteProvider struct {
	mu     sync.RWMutex
	routes map[string]domain.Route

	// Error injection
	ResolveError error
}

// NewMockRouteProvider creates a new mock route provider.
func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{
		routes: make(map[string]domain.Route),
	}
}

// SetRoute registers a route for an origin/destination pair.
func (m *MockRouteProvider) SetRoute(origin, destination string, route domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[origin+"|"+destination] = route
}

func (m *MockRouteProvider) Resolve(ctx context.Context, origin, destination string) (*domain.Route, error) {
	if m.ResolveError != nil {
		return nil, m.ResolveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[origin+"|"+destination]
	if !ok {
		return nil, service.ErrRouteUnavailable
	}
	copy := route
	return &copy, nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockGatewayDown  = errors.New("mock: gateway connection refused")
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
)

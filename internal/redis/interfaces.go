package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed payment locks.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
	AcquireTransactionLock(ctx context.Context, transactionID string, ttl time.Duration) (bool, error)
	ReleaseTransactionLock(ctx context.Context, transactionID string) error
}

// SessionStoreInterface defines the interface for admin session storage.
type SessionStoreInterface interface {
	Put(ctx context.Context, token string, session *AdminSession) error
	Get(ctx context.Context, token string) (*AdminSession, error)
	Delete(ctx context.Context, token string) error
}

// ResetStoreInterface defines the interface for password reset state.
type ResetStoreInterface interface {
	PutCode(ctx context.Context, username, code string) error
	GetCode(ctx context.Context, username string) (string, error)
	DeleteCode(ctx context.Context, username string) error
	PutToken(ctx context.Context, token, username string) error
	GetToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface    = (*LockStore)(nil)
	_ SessionStoreInterface = (*SessionStore)(nil)
	_ ResetStoreInterface   = (*ResetStore)(nil)
)

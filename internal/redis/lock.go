package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireBookingLock attempts to acquire the payment-initiation lock for
// a booking. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:payment:booking:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseBookingLock releases the payment-initiation lock for a booking.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:payment:booking:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}

// AcquireTransactionLock attempts to acquire the capture/cancel lock for
// a transaction. Returns true if the lock was acquired.
func (s *LockStore) AcquireTransactionLock(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:payment:tx:%s", transactionID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseTransactionLock releases the capture/cancel lock for a transaction.
func (s *LockStore) ReleaseTransactionLock(ctx context.Context, transactionID string) error {
	key := fmt.Sprintf("lock:payment:tx:%s", transactionID)

	return s.client.Del(ctx, key).Err()
}

package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTTL is how long a password reset code or token stays valid.
const ResetTTL = 15 * time.Minute

const (
	resetCodePrefix  = "reset:admin:code:"
	resetTokenPrefix = "reset:admin:token:"
)

// ResetStore keeps admin password reset codes and tokens in Redis. The
// code is the short secret delivered to the admin out of band; the token
// is issued once the code has been verified and is what authorizes the
// actual password change.
type ResetStore struct {
	client *redis.Client
}

// NewResetStore creates a new ResetStore.
func NewResetStore(client *redis.Client) *ResetStore {
	return &ResetStore{client: client}
}

// PutCode stores the reset code issued for a username, replacing any
// earlier one.
func (s *ResetStore) PutCode(ctx context.Context, username, code string) error {
	return s.client.Set(ctx, resetCodePrefix+username, code, ResetTTL).Err()
}

// GetCode retrieves the pending reset code for a username. Returns ""
// when no code is pending.
func (s *ResetStore) GetCode(ctx context.Context, username string) (string, error) {
	code, err := s.client.Get(ctx, resetCodePrefix+username).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// DeleteCode invalidates the pending reset code for a username.
func (s *ResetStore) DeleteCode(ctx context.Context, username string) error {
	return s.client.Del(ctx, resetCodePrefix+username).Err()
}

// PutToken stores a verified reset token for a username.
func (s *ResetStore) PutToken(ctx context.Context, token, username string) error {
	return s.client.Set(ctx, resetTokenPrefix+token, username, ResetTTL).Err()
}

// GetToken retrieves the username a reset token was issued for. Returns
// "" when the token is unknown or expired.
func (s *ResetStore) GetToken(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, resetTokenPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return username, nil
}

// DeleteToken invalidates a reset token.
func (s *ResetStore) DeleteToken(ctx context.Context, token string) error {
	return s.client.Del(ctx, resetTokenPrefix+token).Err()
}

package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an admin session token stays valid.
const SessionTTL = 24 * time.Hour

const sessionPrefix = "session:admin:"

// AdminSession is the payload stored for an issued admin token.
type AdminSession struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionStore keeps admin session tokens in Redis.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put stores a session under the given token with the session TTL.
func (s *SessionStore) Put(ctx context.Context, token string, session *AdminSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+token, data, SessionTTL).Err()
}

// Get retrieves the session for a token. Returns nil, nil when the token
// is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, token string) (*AdminSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var session AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete revokes a token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionPrefix+token).Err()
}

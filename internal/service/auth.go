package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taxi/internal/config"
	"taxi/internal/redis"
)

// AdminAuthService issues and validates admin session tokens and drives
// the password reset flow. Tokens are opaque and live in Redis with a
// fixed TTL; restarting the service does not invalidate them.
type AdminAuthService struct {
	username string
	email    string
	sessions redis.SessionStoreInterface
	resets   redis.ResetStoreInterface
	notifier *NotificationService

	mu           sync.RWMutex
	passwordHash []byte
}

// NewAdminAuthService creates a new AdminAuthService. The configured
// plaintext password is hashed once at startup; an empty password
// disables admin login until a reset completes.
func NewAdminAuthService(
	cfg config.AdminConfig,
	sessions redis.SessionStoreInterface,
	resets redis.ResetStoreInterface,
	notifier *NotificationService,
) (*AdminAuthService, error) {
	var hash []byte
	if cfg.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	return &AdminAuthService{
		username:     cfg.Username,
		email:        cfg.Email,
		sessions:     sessions,
		resets:       resets,
		notifier:     notifier,
		passwordHash: hash,
	}, nil
}

// Login verifies admin credentials and issues a bearer token.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (string, error) {
	s.mu.RLock()
	hash := s.passwordHash
	s.mu.RUnlock()

	if len(hash) == 0 || username != s.username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	session := &redis.AdminSession{
		Username: username,
		IssuedAt: time.Now(),
	}

	if err := s.sessions.Put(ctx, token, session); err != nil {
		return "", err
	}

	return token, nil
}

// Validate checks a bearer token and returns the session it belongs to.
func (s *AdminAuthService) Validate(ctx context.Context, token string) (*redis.AdminSession, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	return session, nil
}

// Logout revokes a token.
func (s *AdminAuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// RequestPasswordReset issues a reset code for the admin account and
// delivers it out of band. Unknown usernames are treated as a no-op with
// no error so the endpoint does not reveal which account exists.
func (s *AdminAuthService) RequestPasswordReset(ctx context.Context, username string) error {
	if username != s.username {
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}

	if err := s.resets.PutCode(ctx, username, code); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPasswordResetCode(ctx, s.email, code)
	}

	return nil
}

// VerifyPasswordReset checks a delivered reset code and exchanges it for
// a single-use reset token. The code is consumed on a successful match.
func (s *AdminAuthService) VerifyPasswordReset(ctx context.Context, username, code string) (string, error) {
	if username != s.username || code == "" {
		return "", ErrInvalidResetCode
	}

	stored, err := s.resets.GetCode(ctx, username)
	if err != nil {
		return "", err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", ErrInvalidResetCode
	}

	if err := s.resets.DeleteCode(ctx, username); err != nil {
		return "", err
	}

	token := uuid.New().String()
	if err := s.resets.PutToken(ctx, token, username); err != nil {
		return "", err
	}

	return token, nil
}

// CompletePasswordReset swaps the admin password for a verified reset
// token. The token is consumed on success; existing session tokens stay
// valid, only future logins use the new password.
func (s *AdminAuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	username, err := s.resets.GetToken(ctx, token)
	if err != nil {
		return err
	}
	if username != s.username {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.passwordHash = hash
	s.mu.Unlock()

	return s.resets.DeleteToken(ctx, token)
}

// generateResetCode draws a 6-digit code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

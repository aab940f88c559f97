package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GatewaySession is the checkout session issued by the payment gateway
// when a payment is initiated.
type GatewaySession struct {
	SessionID  string
	PaymentURL string
}

// PaymentGateway is the interface to the external payment processor.
// Sessions are created in manual-capture mode: authorization reserves
// funds, Capture settles them, Release frees the reservation.
type PaymentGateway interface {
	CreateSession(ctx context.Context, bookingID string, amount float64, currency string) (*GatewaySession, error)
	Capture(ctx context.Context, sessionID string) error
	Release(ctx context.Context, sessionID string) error
}

// MockGateway is a mock implementation of PaymentGateway for local use
// and testing.
type MockGateway struct {
	checkoutBaseURL string
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway(checkoutBaseURL string) *MockGateway {
	return &MockGateway{checkoutBaseURL: checkoutBaseURL}
}

// CreateSession issues a fake checkout session. Always succeeds.
func (g *MockGateway) CreateSession(ctx context.Context, bookingID string, amount float64, currency string) (*GatewaySession, error) {
	sessionID := "cs_" + uuid.New().String()
	return &GatewaySession{
		SessionID:  sessionID,
		PaymentURL: fmt.Sprintf("%s/%s", g.checkoutBaseURL, sessionID),
	}, nil
}

// Capture settles a reservation. Always succeeds.
func (g *MockGateway) Capture(ctx context.Context, sessionID string) error {
	return nil
}

// Release frees a reservation. Always succeeds.
func (g *MockGateway) Release(ctx context.Context, sessionID string) error {
	return nil
}

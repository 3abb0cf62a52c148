package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	PaymentPayload(orderRef, paymentRef string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
}

// VerificationCache keeps terminal donation records keyed by order ref.
type VerificationCache interface {
	Get(ctx context.Context, orderRef string) (*domain.Donation, error) // nil on miss
	Set(ctx context.Context, donation *domain.Donation, ttl time.Duration) error
}

// Routing keys for donation events.
const (
	EventDonationCompleted = "donation.completed"
	EventDonationFailed    = "donation.failed"
)

// DonationEvent is published when a donation reaches a terminal state.
type DonationEvent struct {
	EventType  string    `json:"event_type"`
	DonationID string    `json:"donation_id"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event DonationEvent) error
}

// --- Service Ports (Business Logic) ---

// DonationService drives the order and verification lifecycle.
type DonationService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*domain.Donation, error)
}

// CreateOrderRequest holds input for a new donation order.
type CreateOrderRequest struct {
	Amount      decimal.Decimal
	IsAnonymous bool
	DonorInfo   *domain.DonorInfo
	CallerID    *uuid.UUID
}

// CreateOrderResult is what the client needs to open the gateway checkout.
type CreateOrderResult struct {
	OrderRef    string
	AmountMinor int64
	Currency    string
	KeyID       string
	Donation    *domain.Donation
}

// VerifyPaymentRequest carries the client-side confirmation triple.
type VerifyPaymentRequest struct {
	OrderRef   string
	PaymentRef string
	Signature  string
}

// ReportingService serves the read side of donations.
type ReportingService interface {
	GetProgress(ctx context.Context) (*domain.Progress, error)
	ListHistory(ctx context.Context, page, pageSize int) (*domain.HistoryPage, error)
	ListOwn(ctx context.Context, callerID uuid.UUID) ([]domain.Donation, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	GraduationYear int
	Major          string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// VerificationCache implements ports.VerificationCache in Redis.
// Entries hold the public view of a donation so no donor data lands in the cache.
type VerificationCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewVerificationCache creates a new Redis-backed verification cache.
func NewVerificationCache(client goredis.UniversalClient) *VerificationCache {
	return &VerificationCache{
		client: client,
		prefix: "donation:verified:",
	}
}

type cachedDonation struct {
	ID          uuid.UUID             `json:"id"`
	UserID      *uuid.UUID            `json:"user_id,omitempty"`
	Amount      decimal.Decimal       `json:"amount"`
	Currency    string                `json:"currency"`
	OrderRef    string                `json:"order_ref"`
	PaymentRef  *string               `json:"payment_ref,omitempty"`
	Status      domain.DonationStatus `json:"status"`
	IsAnonymous bool                  `json:"is_anonymous"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Get returns the cached donation for orderRef, or nil, nil on a miss.
func (c *VerificationCache) Get(ctx context.Context, orderRef string) (*domain.Donation, error) {
	raw, err := c.client.Get(ctx, c.prefix+orderRef).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis verification get: %w", err)
	}

	var cd cachedDonation
	if err := json.Unmarshal(raw, &cd); err != nil {
		return nil, fmt.Errorf("decode cached donation: %w", err)
	}
	return &domain.Donation{
		ID:          cd.ID,
		UserID:      cd.UserID,
		Amount:      cd.Amount,
		Currency:    cd.Currency,
		OrderRef:    cd.OrderRef,
		PaymentRef:  cd.PaymentRef,
		Status:      cd.Status,
		IsAnonymous: cd.IsAnonymous,
		CreatedAt:   cd.CreatedAt,
		UpdatedAt:   cd.UpdatedAt,
	}, nil
}

// Set stores d under its order ref with the given TTL.
func (c *VerificationCache) Set(ctx context.Context, d *domain.Donation, ttl time.Duration) error {
	p := d.Public()
	raw, err := json.Marshal(cachedDonation{
		ID:          p.ID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		OrderRef:    p.OrderRef,
		PaymentRef:  p.PaymentRef,
		Status:      p.Status,
		IsAnonymous: p.IsAnonymous,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode cached donation: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+d.OrderRef, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis verification set: %w", err)
	}
	return nil
}

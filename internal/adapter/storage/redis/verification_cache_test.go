package redis

import (
	"context"
	"testing"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedDonation(anonymous bool) *domain.Donation {
	uid := uuid.New()
	ref := "pay_1"
	now := time.Now().UTC().Truncate(time.Second)
	d := &domain.Donation{
		ID:             uuid.New(),
		UserID:         &uid,
		Amount:         decimal.RequireFromString("1500.25"),
		Currency:       "INR",
		OrderRef:       "order_1",
		PaymentRef:     &ref,
		Status:         domain.DonationStatusCompleted,
		IsAnonymous:    anonymous,
		DonorInfo:      &domain.DonorInfo{Name: "Asha Rao", Email: "asha@example.com"},
		PaymentDetails: &domain.PaymentDetails{Method: "card"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if anonymous {
		d.UserID = nil
		d.DonorInfo = nil
	}
	return d
}

func TestVerificationCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	cache := NewVerificationCache(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	got, err := cache.Get(ctx, "order_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	d := completedDonation(false)
	require.NoError(t, cache.Set(ctx, d, time.Hour))
	assert.True(t, s.Exists("donation:verified:order_1"))

	got, err = cache.Get(ctx, "order_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.UserID, got.UserID)
	assert.True(t, d.Amount.Equal(got.Amount))
	assert.Equal(t, domain.DonationStatusCompleted, got.Status)
	assert.Equal(t, "pay_1", *got.PaymentRef)
	assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
}

func TestVerificationCache_StoresNoDonorData(t *testing.T) {
	s := miniredis.RunT(t)
	cache := NewVerificationCache(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))

	require.NoError(t, cache.Set(context.Background(), completedDonation(false), time.Hour))

	raw, err := s.Get("donation:verified:order_1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "asha@example.com")
	assert.NotContains(t, raw, "card")
}

func TestVerificationCache_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	cache := NewVerificationCache(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, completedDonation(true), time.Second))
	s.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, "order_1")
	assert.NoError(t, err)
	assert.Nil(t, got, "expired entry should be a miss")
}

func TestVerificationCache_CorruptEntry(t *testing.T) {
	s := miniredis.RunT(t)
	cache := NewVerificationCache(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	require.NoError(t, s.Set("donation:verified:order_1", "{not json"))

	_, err := cache.Get(context.Background(), "order_1")
	assert.ErrorContains(t, err, "decode cached donation")
}

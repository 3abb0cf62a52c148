package dto

import (
	"encoding/json"
	"testing"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRequest_AmountForms(t *testing.T) {
	for _, raw := range []string{`{"amount":500.50}`, `{"amount":"500.50"}`} {
		var req CreateOrderRequest
		require.NoError(t, json.Unmarshal([]byte(raw), &req), raw)
		require.NotNil(t, req.Amount)
		assert.True(t, req.Amount.Equal(decimal.RequireFromString("500.5")), raw)
	}

	var missing CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"isAnonymous":true}`), &missing))
	assert.Nil(t, missing.Amount)
}

func TestNewDonationResponse_Anonymous(t *testing.T) {
	uid := uuid.New()
	d := domain.Donation{
		ID:             uuid.New(),
		UserID:         &uid,
		Amount:         decimal.RequireFromString("250.75"),
		Currency:       "INR",
		OrderRef:       "order_1",
		Status:         domain.DonationStatusCompleted,
		IsAnonymous:    true,
		DonorInfo:      &domain.DonorInfo{Name: "Hidden"},
		PaymentDetails: &domain.PaymentDetails{Method: "upi"},
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewDonationResponse(d))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 250.75, m["amount"])
	assert.Equal(t, "order_1", m["razorpayOrderId"])
	assert.Equal(t, true, m["isAnonymous"])
	assert.NotContains(t, m, "userId")
	assert.NotContains(t, m, "donorInfo")
	assert.NotContains(t, m, "paymentDetails")
	assert.NotContains(t, m, "razorpayPaymentId")
}

func TestNewHistoryResponse(t *testing.T) {
	named := domain.Donation{ID: uuid.New(), Amount: decimal.NewFromInt(100), Status: domain.DonationStatusCompleted,
		DonorInfo: &domain.DonorInfo{Name: "Asha Rao", Email: "asha@example.com"}}
	page := &domain.HistoryPage{
		Items:       []domain.HistoryItem{{Donation: named, DonorName: "Asha Rao"}},
		CurrentPage: 2,
		TotalPages:  3,
		TotalCount:  21,
	}

	raw, err := json.Marshal(NewHistoryResponse(page))
	require.NoError(t, err)

	var m struct {
		Donations []map[string]any `json:"donations"`
		Current   int              `json:"currentPage"`
		Pages     int              `json:"totalPages"`
		Total     int64            `json:"totalDonations"`
	}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 2, m.Current)
	assert.Equal(t, 3, m.Pages)
	assert.Equal(t, int64(21), m.Total)
	require.Len(t, m.Donations, 1)
	assert.Equal(t, "Asha Rao", m.Donations[0]["donorName"])
	assert.Equal(t, float64(100), m.Donations[0]["amount"])
}

func TestNewHistoryResponse_EmptyIsArray(t *testing.T) {
	raw, err := json.Marshal(NewHistoryResponse(&domain.HistoryPage{CurrentPage: 1}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"donations":[]`)

	raw, err = json.Marshal(NewDonationList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestNewProgressResponse(t *testing.T) {
	p := &domain.Progress{
		Total:           decimal.RequireFromString("250000.50"),
		Goal:            decimal.NewFromInt(1000000),
		Percentage:      decimal.RequireFromString("25.00005"),
		RemainingAmount: decimal.RequireFromString("749999.5"),
	}
	got := NewProgressResponse(p)
	assert.Equal(t, 250000.5, got.Total)
	assert.Equal(t, float64(1000000), got.Goal)
	assert.Equal(t, 25.00005, got.Percentage)
	assert.Equal(t, 749999.5, got.RemainingAmount)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationStatus represents the lifecycle state of a donation.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// AnonymousDonorName is shown in place of donor details for anonymous donations.
const AnonymousDonorName = "Anonymous"

// DonorInfo is a snapshot of the donor taken when the order is created.
type DonorInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentDetails is copied from the gateway payment on completion.
type PaymentDetails struct {
	Method  string `json:"method"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Donation is one attempt to donate, tied to exactly one gateway order.
type Donation struct {
	ID             uuid.UUID
	UserID         *uuid.UUID // nil iff anonymous
	Amount         decimal.Decimal
	Currency       string
	OrderRef       string
	PaymentRef     *string
	Status         DonationStatus
	IsAnonymous    bool
	DonorInfo      *DonorInfo
	PaymentDetails *PaymentDetails
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal returns true once the donation has left pending.
func (d *Donation) IsTerminal() bool {
	return d.Status == DonationStatusCompleted || d.Status == DonationStatusFailed
}

// Public returns a copy safe for listing: payment details are removed and
// anonymous donations lose every donor reference.
func (d *Donation) Public() Donation {
	out := *d
	out.PaymentDetails = nil
	if out.IsAnonymous {
		out.UserID = nil
		out.DonorInfo = nil
	}
	return out
}

// DonationTransition describes the terminal state written by a conditional update.
type DonationTransition struct {
	Status         DonationStatus
	PaymentRef     *string
	PaymentDetails *PaymentDetails
}

// DonationListParams filters a page of donations.
type DonationListParams struct {
	Statuses []DonationStatus
	UserID   *uuid.UUID
	Limit    int
	Offset   int
}

// HistoryItem is one entry of the public donation history.
type HistoryItem struct {
	Donation  Donation
	DonorName string
}

// HistoryPage is a page of completed donations, newest first.
type HistoryPage struct {
	Items       []HistoryItem
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}

// Progress summarizes completed donations against the campaign goal.
type Progress struct {
	Total           decimal.Decimal
	Goal            decimal.Decimal
	Percentage      decimal.Decimal
	RemainingAmount decimal.Decimal
}

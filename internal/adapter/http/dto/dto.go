package dto

import (
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email,max=255"`
	Password       string `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
	FirstName      string `json:"firstName" binding:"required,max=100"`
	LastName       string `json:"lastName" binding:"required,max=100"`
	GraduationYear int    `json:"graduationYear" binding:"required,gte=1900,lte=2100"`
	Major          string `json:"major" binding:"required,max=150"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	GraduationYear int    `json:"graduationYear,omitempty"`
	Major          string `json:"major,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // Unix timestamp
	User      UserResponse `json:"user"`
}

// DonorInfoRequest carries optional donor contact details.
type DonorInfoRequest struct {
	Name  string `json:"name" binding:"max=200"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
	Phone string `json:"phone" binding:"max=20"`
}

// CreateOrderRequest is the request body for POST /donations/create-order.
// Amount is in major units and accepts a JSON number or string.
type CreateOrderRequest struct {
	Amount      *decimal.Decimal  `json:"amount" binding:"required"`
	IsAnonymous bool              `json:"isAnonymous"`
	DonorInfo   *DonorInfoRequest `json:"donorInfo"`
}

// OrderDonation summarises the pending record in a create-order response.
type OrderDonation struct {
	ID     string                `json:"id"`
	Amount float64               `json:"amount"`
	Status domain.DonationStatus `json:"status"`
}

// CreateOrderResponse gives the client what it needs to open checkout.
type CreateOrderResponse struct {
	OrderID  string        `json:"orderId"`
	Amount   int64         `json:"amount"` // minor units
	Currency string        `json:"currency"`
	Key      string        `json:"key"`
	Donation OrderDonation `json:"donation"`
}

// VerifyPaymentRequest uses the field names the gateway checkout hands back.
type VerifyPaymentRequest struct {
	PaymentID string `json:"razorpay_payment_id" binding:"omitempty,max=64,safe_id"`
	OrderID   string `json:"razorpay_order_id" binding:"omitempty,max=64,safe_id"`
	Signature string `json:"razorpay_signature" binding:"omitempty,max=128"`
}

// VerifiedDonation is the donation summary in a verify response.
type VerifiedDonation struct {
	ID        string                `json:"id"`
	Amount    float64               `json:"amount"`
	Status    domain.DonationStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

// VerifyPaymentResponse is returned when a payment is confirmed.
type VerifyPaymentResponse struct {
	Message  string           `json:"message"`
	Donation VerifiedDonation `json:"donation"`
}

// ProgressResponse reports campaign progress in major units.
type ProgressResponse struct {
	Total           float64 `json:"total"`
	Goal            float64 `json:"goal"`
	Percentage      float64 `json:"percentage"`
	RemainingAmount float64 `json:"remainingAmount"`
}

// DonorInfoResponse mirrors the stored donor snapshot.
type DonorInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DonationResponse is a donation as listed to clients. Payment details are
// never included; anonymous records omit userId and donorInfo.
type DonationResponse struct {
	ID                string                `json:"id"`
	UserID            *string               `json:"userId,omitempty"`
	Amount            float64               `json:"amount"`
	Currency          string                `json:"currency"`
	RazorpayOrderID   string                `json:"razorpayOrderId"`
	RazorpayPaymentID *string               `json:"razorpayPaymentId,omitempty"`
	Status            domain.DonationStatus `json:"status"`
	IsAnonymous       bool                  `json:"isAnonymous"`
	DonorInfo         *DonorInfoResponse    `json:"donorInfo,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// HistoryItemResponse adds the display name to a listed donation.
type HistoryItemResponse struct {
	DonationResponse
	DonorName string `json:"donorName"`
}

// HistoryQuery binds the history paging parameters.
type HistoryQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// HistoryResponse is one page of completed donations.
type HistoryResponse struct {
	Donations      []HistoryItemResponse `json:"donations"`
	CurrentPage    int                   `json:"currentPage"`
	TotalPages     int                   `json:"totalPages"`
	TotalDonations int64                 `json:"totalDonations"`
}

// NewUserResponse maps an account to its public view.
func NewUserResponse(a *domain.Account) UserResponse {
	return UserResponse{
		ID:             a.ID.String(),
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		GraduationYear: a.GraduationYear,
		Major:          a.Major,
	}
}

// NewDonationResponse maps the public view of d.
func NewDonationResponse(d domain.Donation) DonationResponse {
	p := d.Public()
	out := DonationResponse{
		ID:                p.ID.String(),
		Amount:            p.Amount.InexactFloat64(),
		Currency:          p.Currency,
		RazorpayOrderID:   p.OrderRef,
		RazorpayPaymentID: p.PaymentRef,
		Status:            p.Status,
		IsAnonymous:       p.IsAnonymous,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.UserID != nil {
		uid := p.UserID.String()
		out.UserID = &uid
	}
	if p.DonorInfo != nil {
		out.DonorInfo = &DonorInfoResponse{Name: p.DonorInfo.Name, Email: p.DonorInfo.Email, Phone: p.DonorInfo.Phone}
	}
	return out
}

// NewDonationList maps donations, always returning a non-nil slice.
func NewDonationList(ds []domain.Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, NewDonationResponse(d))
	}
	return out
}

// NewHistoryResponse maps a history page.
func NewHistoryResponse(p *domain.HistoryPage) HistoryResponse {
	items := make([]HistoryItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, HistoryItemResponse{
			DonationResponse: NewDonationResponse(it.Donation),
			DonorName:        it.DonorName,
		})
	}
	return HistoryResponse{
		Donations:      items,
		CurrentPage:    p.CurrentPage,
		TotalPages:     p.TotalPages,
		TotalDonations: p.TotalCount,
	}
}

// NewProgressResponse converts decimal progress figures to JSON numbers.
func NewProgressResponse(p *domain.Progress) ProgressResponse {
	return ProgressResponse{
		Total:           p.Total.InexactFloat64(),
		Goal:            p.Goal.InexactFloat64(),
		Percentage:      p.Percentage.InexactFloat64(),
		RemainingAmount: p.RemainingAmount.InexactFloat64(),
	}
}

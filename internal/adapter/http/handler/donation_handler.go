package handler

import (
	"alumni-platform/internal/adapter/http/dto"
	"alumni-platform/internal/adapter/http/middleware"
	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"
	"alumni-platform/pkg/apperror"
	"alumni-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

const paymentVerifiedMessage = "Payment verified successfully"

// DonationHandler handles the donation endpoints.
type DonationHandler struct {
	donationSvc  ports.DonationService
	reportingSvc ports.ReportingService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationSvc ports.DonationService, reportingSvc ports.ReportingService) *DonationHandler {
	return &DonationHandler{donationSvc: donationSvc, reportingSvc: reportingSvc}
}

// CreateOrder handles POST /api/donations/create-order.
func (h *DonationHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.CreateOrderRequest{
		Amount:      *req.Amount,
		IsAnonymous: req.IsAnonymous,
	}
	if id, ok := middleware.AccountID(c); ok {
		in.CallerID = &id
	}
	if req.DonorInfo != nil {
		in.DonorInfo = &domain.DonorInfo{
			Name:  req.DonorInfo.Name,
			Email: req.DonorInfo.Email,
			Phone: req.DonorInfo.Phone,
		}
	}

	result, err := h.donationSvc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditResource, result.OrderRef)

	response.Created(c, dto.CreateOrderResponse{
		OrderID:  result.OrderRef,
		Amount:   result.AmountMinor,
		Currency: result.Currency,
		Key:      result.KeyID,
		Donation: dto.OrderDonation{
			ID:     result.Donation.ID.String(),
			Amount: result.Donation.Amount.InexactFloat64(),
			Status: result.Donation.Status,
		},
	})
}

// VerifyPayment handles POST /api/donations/verify-payment.
// A payment the gateway did not capture is reported as 400 after the record
// has been marked failed.
func (h *DonationHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	donation, err := h.donationSvc.VerifyPayment(c.Request.Context(), ports.VerifyPaymentRequest{
		OrderRef:   req.OrderID,
		PaymentRef: req.PaymentID,
		Signature:  req.Signature,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.CtxAuditResource, donation.OrderRef)

	if donation.Status == domain.DonationStatusFailed {
		response.Error(c, apperror.ErrPaymentNotCaptured())
		return
	}

	response.OK(c, dto.VerifyPaymentResponse{
		Message: paymentVerifiedMessage,
		Donation: dto.VerifiedDonation{
			ID:        donation.ID.String(),
			Amount:    donation.Amount.InexactFloat64(),
			Status:    donation.Status,
			CreatedAt: donation.CreatedAt,
		},
	})
}

// Progress handles GET /api/donations/progress.
func (h *DonationHandler) Progress(c *gin.Context) {
	progress, err := h.reportingSvc.GetProgress(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewProgressResponse(progress))
}

// History handles GET /api/donations/history?page=&limit=.
func (h *DonationHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation("page and limit must be integers"))
		return
	}

	page, err := h.reportingSvc.ListHistory(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewHistoryResponse(page))
}

// MyDonations handles GET /api/donations/my-donations.
func (h *DonationHandler) MyDonations(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	donations, err := h.reportingSvc.ListOwn(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewDonationList(donations))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"
	"alumni-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to the gateway's integer minor
// units. Halves round away from zero: 0.125 -> 13, 500.50 -> 50050.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// DonationSettings holds the gateway credentials and limits the lifecycle needs.
type DonationSettings struct {
	KeyID           string
	KeySecret       string
	Currency        string
	GatewayTimeout  time.Duration
	MaxAmount       decimal.Decimal
	VerificationTTL time.Duration
}

// DonationServiceImpl implements ports.DonationService.
type DonationServiceImpl struct {
	repo     ports.DonationRepository
	accounts ports.AccountRepository
	gateway  ports.PaymentGateway
	sigSvc   ports.SignatureService
	cache    ports.VerificationCache // optional
	events   ports.EventPublisher    // optional
	cfg      DonationSettings
	log      zerolog.Logger
}

// NewDonationService creates a new DonationServiceImpl. cache and events may be nil.
func NewDonationService(
	repo ports.DonationRepository,
	accounts ports.AccountRepository,
	gateway ports.PaymentGateway,
	sigSvc ports.SignatureService,
	cache ports.VerificationCache,
	events ports.EventPublisher,
	cfg DonationSettings,
	log zerolog.Logger,
) *DonationServiceImpl {
	return &DonationServiceImpl{
		repo:     repo,
		accounts: accounts,
		gateway:  gateway,
		sigSvc:   sigSvc,
		cache:    cache,
		events:   events,
		cfg:      cfg,
		log:      log,
	}
}

// CreateOrder opens a gateway order and records a pending donation for it.
// Nothing is persisted when the gateway call fails.
func (s *DonationServiceImpl) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (*ports.CreateOrderResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	// Amounts are stored with two decimals.
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, apperror.ErrInvalidAmount()
	}
	if s.cfg.MaxAmount.IsPositive() && req.Amount.GreaterThan(s.cfg.MaxAmount) {
		return nil, apperror.ErrAmountTooLarge(s.cfg.MaxAmount.String())
	}
	minor := ToMinorUnits(req.Amount)
	if minor <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if !req.IsAnonymous && req.CallerID == nil {
		return nil, apperror.ErrInvalidToken()
	}

	var donor *domain.DonorInfo
	if !req.IsAnonymous {
		var err error
		donor, err = s.donorSnapshot(ctx, *req.CallerID, req.DonorInfo)
		if err != nil {
			return nil, err
		}
	}

	gctx, cancel := s.gatewayContext(ctx)
	defer cancel()

	order, err := s.gateway.CreateOrder(gctx, ports.OrderRequest{
		Amount:      minor,
		Currency:    s.cfg.Currency,
		Receipt:     "receipt_" + ulid.Make().String(),
		AutoCapture: true,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("amount", req.Amount.String()).Msg("gateway order creation failed")
		return nil, apperror.ErrGateway(err)
	}
	if order.ID == "" {
		return nil, apperror.ErrGateway(errors.New("gateway returned an order without id"))
	}

	currency := order.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	amountMinor := order.Amount
	if amountMinor == 0 {
		amountMinor = minor
	}

	now := time.Now().UTC()
	donation := &domain.Donation{
		ID:          uuid.New(),
		Amount:      req.Amount,
		Currency:    currency,
		OrderRef:    order.ID,
		Status:      domain.DonationStatusPending,
		IsAnonymous: req.IsAnonymous,
		DonorInfo:   donor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !req.IsAnonymous {
		uid := *req.CallerID
		donation.UserID = &uid
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		// The remote order exists without a local record; keep the ref for reconciliation.
		s.log.Error().Err(err).Str("order_ref", order.ID).Msg("gateway order created but donation not persisted")
		return nil, apperror.InternalError(fmt.Errorf("persist donation: %w", err))
	}

	s.log.Info().
		Str("donation_id", donation.ID.String()).
		Str("order_ref", donation.OrderRef).
		Str("amount", donation.Amount.String()).
		Bool("anonymous", donation.IsAnonymous).
		Msg("donation order created")

	return &ports.CreateOrderResult{
		OrderRef:    order.ID,
		AmountMinor: amountMinor,
		Currency:    currency,
		KeyID:       s.cfg.KeyID,
		Donation:    donation,
	}, nil
}

// donorSnapshot fills name and email from the request or, failing that, the
// caller's account. Phone only ever comes from the request.
func (s *DonationServiceImpl) donorSnapshot(ctx context.Context, callerID uuid.UUID, given *domain.DonorInfo) (*domain.DonorInfo, error) {
	info := domain.DonorInfo{}
	if given != nil {
		info.Name = strings.TrimSpace(given.Name)
		info.Email = strings.TrimSpace(given.Email)
		info.Phone = strings.TrimSpace(given.Phone)
	}
	if info.Name != "" && info.Email != "" {
		return &info, nil
	}

	account, err := s.accounts.GetByID(ctx, callerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load donor account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidToken()
	}
	if info.Name == "" {
		info.Name = account.FullName()
	}
	if info.Email == "" {
		info.Email = account.Email
	}
	return &info, nil
}

// VerifyPayment checks the client confirmation and moves the donation out of
// pending at most once. Terminal records are returned unchanged.
func (s *DonationServiceImpl) VerifyPayment(ctx context.Context, req ports.VerifyPaymentRequest) (*domain.Donation, error) {
	if req.OrderRef == "" || req.PaymentRef == "" || req.Signature == "" {
		return nil, apperror.Validation("Missing payment verification parameters")
	}

	payload := s.sigSvc.PaymentPayload(req.OrderRef, req.PaymentRef)
	if !s.sigSvc.Verify(s.cfg.KeySecret, payload, req.Signature) {
		s.log.Warn().Str("order_ref", req.OrderRef).Msg("payment signature mismatch")
		return nil, apperror.ErrSignatureMismatch()
	}

	// A cache hit only marks the record settled; the record itself is read from the store.
	settled := s.knownTerminal(ctx, req.OrderRef)

	donation, err := s.repo.GetByOrderRef(ctx, req.OrderRef)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get donation: %w", err))
	}
	if donation == nil {
		return nil, apperror.ErrNotFound("Donation record")
	}
	if donation.IsTerminal() {
		if !settled {
			s.remember(ctx, donation)
		}
		return donation, nil
	}

	gctx, cancel := s.gatewayContext(ctx)
	defer cancel()

	payment, err := s.gateway.FetchPayment(gctx, req.PaymentRef)
	if err != nil {
		s.log.Warn().Err(err).Str("order_ref", req.OrderRef).Msg("gateway payment fetch failed")
		return nil, apperror.ErrGateway(err)
	}

	transition := domain.DonationTransition{Status: domain.DonationStatusFailed}
	if payment.Status == ports.PaymentStatusCaptured {
		paymentRef := req.PaymentRef
		transition = domain.DonationTransition{
			Status:     domain.DonationStatusCompleted,
			PaymentRef: &paymentRef,
			PaymentDetails: &domain.PaymentDetails{
				Method:  payment.Method,
				Email:   payment.Email,
				Contact: payment.Contact,
			},
		}
	}

	updated, err := s.repo.TransitionFromPending(ctx, req.OrderRef, transition)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePaymentRef) {
			s.log.Warn().Str("order_ref", req.OrderRef).Str("payment_ref", req.PaymentRef).Msg("payment already attached to another donation")
			return nil, apperror.ErrDuplicatePayment()
		}
		return nil, apperror.InternalError(fmt.Errorf("transition donation: %w", err))
	}
	if updated == nil {
		// A concurrent verification won; report what it wrote.
		current, err := s.repo.GetByOrderRef(ctx, req.OrderRef)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("reload donation: %w", err))
		}
		if current == nil {
			return nil, apperror.ErrNotFound("Donation record")
		}
		return current, nil
	}

	s.remember(ctx, updated)
	s.publish(ctx, updated)

	s.log.Info().
		Str("donation_id", updated.ID.String()).
		Str("order_ref", updated.OrderRef).
		Str("status", string(updated.Status)).
		Str("amount", updated.Amount.String()).
		Msg("donation verified")

	return updated, nil
}

func (s *DonationServiceImpl) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GatewayTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.GatewayTimeout)
}

func (s *DonationServiceImpl) knownTerminal(ctx context.Context, orderRef string) bool {
	if s.cache == nil {
		return false
	}
	d, err := s.cache.Get(ctx, orderRef)
	if err != nil {
		s.log.Warn().Err(err).Str("order_ref", orderRef).Msg("verification cache read failed")
		return false
	}
	return d != nil && d.IsTerminal()
}

func (s *DonationServiceImpl) remember(ctx context.Context, d *domain.Donation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, d, s.cfg.VerificationTTL); err != nil {
		s.log.Warn().Err(err).Str("order_ref", d.OrderRef).Msg("verification cache write failed")
	}
}

func (s *DonationServiceImpl) publish(ctx context.Context, d *domain.Donation) {
	if s.events == nil {
		return
	}
	routingKey := ports.EventDonationFailed
	if d.Status == domain.DonationStatusCompleted {
		routingKey = ports.EventDonationCompleted
	}
	event := ports.DonationEvent{
		EventType:  routingKey,
		DonationID: d.ID.String(),
		OrderID:    d.OrderRef,
		Amount:     d.Amount.String(),
		Currency:   d.Currency,
		Status:     string(d.Status),
		OccurredAt: time.Now().UTC(),
	}
	if d.PaymentRef != nil {
		event.PaymentID = *d.PaymentRef
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn().Err(err).Str("order_ref", d.OrderRef).Str("routing_key", routingKey).Msg("donation event publish failed")
	}
}

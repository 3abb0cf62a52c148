package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- In-Memory Donation Repo ---

type memDonationRepo struct {
	mu        sync.Mutex
	donations map[string]*domain.Donation // keyed by order ref
}

func newMemDonationRepo() *memDonationRepo {
	return &memDonationRepo{donations: make(map[string]*domain.Donation)}
}

func (r *memDonationRepo) Create(_ context.Context, d *domain.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.donations[d.OrderRef]; ok {
		return domain.ErrDuplicateOrderRef
	}
	cp := *d
	r.donations[d.OrderRef] = &cp
	return nil
}

func (r *memDonationRepo) GetByOrderRef(_ context.Context, orderRef string) (*domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[orderRef]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *memDonationRepo) TransitionFromPending(_ context.Context, orderRef string, t domain.DonationTransition) (*domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[orderRef]
	if !ok || d.Status != domain.DonationStatusPending {
		return nil, nil
	}
	if t.PaymentRef != nil {
		for ref, other := range r.donations {
			if ref != orderRef && other.PaymentRef != nil && *other.PaymentRef == *t.PaymentRef {
				return nil, domain.ErrDuplicatePaymentRef
			}
		}
	}
	d.Status = t.Status
	d.PaymentRef = t.PaymentRef
	d.PaymentDetails = t.PaymentDetails
	d.UpdatedAt = time.Now().UTC()
	cp := *d
	return &cp, nil
}

func (r *memDonationRepo) SumAmountByStatus(_ context.Context, status domain.DonationStatus) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, d := range r.donations {
		if d.Status == status {
			total = total.Add(d.Amount)
		}
	}
	return total, nil
}

func (r *memDonationRepo) List(_ context.Context, p domain.DonationListParams) ([]domain.Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Donation
	for _, d := range r.donations {
		if !statusIn(d.Status, p.Statuses) {
			continue
		}
		if p.UserID != nil && (d.UserID == nil || *d.UserID != *p.UserID) {
			continue
		}
		matched = append(matched, *d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if p.Offset >= len(matched) {
		return []domain.Donation{}, total, nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[p.Offset:end], total, nil
}

func (r *memDonationRepo) ListByUser(ctx context.Context, userID uuid.UUID, statuses []domain.DonationStatus) ([]domain.Donation, error) {
	out, _, err := r.List(ctx, domain.DonationListParams{Statuses: statuses, UserID: &userID})
	return out, err
}

func statusIn(s domain.DonationStatus, set []domain.DonationStatus) bool {
	if len(set) == 0 {
		return true
	}
	for _, want := range set {
		if s == want {
			return true
		}
	}
	return false
}

// --- In-Memory Account Repo ---

type memAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *memAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			cp := *a
			out[id] = &cp
		}
	}
	return out, nil
}

// --- In-Memory Audit Repo ---

type memAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

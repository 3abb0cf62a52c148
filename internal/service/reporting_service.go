package service

import (
	"context"
	"fmt"
	"math"

	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"
	"alumni-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// DefaultDonationGoal applies when no positive goal is configured.
var DefaultDonationGoal = decimal.NewFromInt(1000000)

// reportingService implements ports.ReportingService.
type reportingService struct {
	donations ports.DonationRepository
	accounts  ports.AccountRepository
	goal      decimal.Decimal
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	donations ports.DonationRepository,
	accounts ports.AccountRepository,
	goal decimal.Decimal,
) ports.ReportingService {
	if !goal.IsPositive() {
		goal = DefaultDonationGoal
	}
	return &reportingService{
		donations: donations,
		accounts:  accounts,
		goal:      goal,
	}
}

// GetProgress sums completed donations against the goal. RemainingAmount goes
// negative once the goal is exceeded.
func (s *reportingService) GetProgress(ctx context.Context) (*domain.Progress, error) {
	total, err := s.donations.SumAmountByStatus(ctx, domain.DonationStatusCompleted)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum completed donations: %w", err))
	}

	return &domain.Progress{
		Total:           total,
		Goal:            s.goal,
		Percentage:      total.Mul(hundred).Div(s.goal),
		RemainingAmount: s.goal.Sub(total),
	}, nil
}

// ListHistory returns one page of completed donations, newest first.
func (s *reportingService) ListHistory(ctx context.Context, page, pageSize int) (*domain.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	// Keeps (page-1)*pageSize from overflowing into a negative offset.
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	donations, total, err := s.donations.List(ctx, domain.DonationListParams{
		Statuses: []domain.DonationStatus{domain.DonationStatusCompleted},
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list donations: %w", err))
	}

	accounts, err := s.donorAccounts(ctx, donations)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HistoryItem, 0, len(donations))
	for i := range donations {
		d := &donations[i]
		items = append(items, domain.HistoryItem{
			Donation:  d.Public(),
			DonorName: donorName(d, accounts),
		})
	}

	return &domain.HistoryPage{
		Items:       items,
		CurrentPage: page,
		TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		TotalCount:  total,
	}, nil
}

// donorAccounts loads the accounts needed to name donors without a snapshot name.
func (s *reportingService) donorAccounts(ctx context.Context, donations []domain.Donation) (map[uuid.UUID]*domain.Account, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for i := range donations {
		d := &donations[i]
		if d.IsAnonymous || d.UserID == nil || (d.DonorInfo != nil && d.DonorInfo.Name != "") {
			continue
		}
		if _, ok := seen[*d.UserID]; ok {
			continue
		}
		seen[*d.UserID] = struct{}{}
		ids = append(ids, *d.UserID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	accounts, err := s.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load donor accounts: %w", err))
	}
	return accounts, nil
}

func donorName(d *domain.Donation, accounts map[uuid.UUID]*domain.Account) string {
	if d.IsAnonymous {
		return domain.AnonymousDonorName
	}
	if d.DonorInfo != nil && d.DonorInfo.Name != "" {
		return d.DonorInfo.Name
	}
	if d.UserID != nil {
		if a, ok := accounts[*d.UserID]; ok {
			return a.FullName()
		}
	}
	return ""
}

// ListOwn returns the caller's pending and completed donations, newest first.
func (s *reportingService) ListOwn(ctx context.Context, callerID uuid.UUID) ([]domain.Donation, error) {
	donations, err := s.donations.ListByUser(ctx, callerID, []domain.DonationStatus{
		domain.DonationStatusPending,
		domain.DonationStatusCompleted,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list own donations: %w", err))
	}

	out := make([]domain.Donation, 0, len(donations))
	for i := range donations {
		out = append(out, donations[i].Public())
	}
	return out, nil
}

package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationRepository defines persistence operations for donation records.
// Lookups return (nil, nil) when nothing matches.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByOrderRef(ctx context.Context, orderRef string) (*domain.Donation, error)
	// TransitionFromPending applies the transition only if the record is still
	// pending. Returns (nil, nil) when no pending record matched.
	TransitionFromPending(ctx context.Context, orderRef string, t domain.DonationTransition) (*domain.Donation, error)
	SumAmountByStatus(ctx context.Context, status domain.DonationStatus) (decimal.Decimal, error)
	// List returns one page ordered newest first along with the total match count.
	List(ctx context.Context, params domain.DonationListParams) ([]domain.Donation, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, statuses []domain.DonationStatus) ([]domain.Donation, error)
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByIDs returns the accounts found, keyed by id. Missing ids are omitted.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Account, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

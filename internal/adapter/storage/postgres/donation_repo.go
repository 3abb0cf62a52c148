package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const donationColumns = `id, user_id, amount::text, currency, order_ref, payment_ref, status,
	is_anonymous, donor_info, payment_details, created_at, updated_at`

// DonationRepo implements ports.DonationRepository.
// Donor info and payment details are sealed with the encryption service.
type DonationRepo struct {
	pool Pool
	enc  ports.EncryptionService
}

// NewDonationRepo creates a new DonationRepo.
func NewDonationRepo(pool Pool, enc ports.EncryptionService) *DonationRepo {
	return &DonationRepo{pool: pool, enc: enc}
}

// Create inserts a pending donation.
func (r *DonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	donorInfo, err := r.seal(d.DonorInfo)
	if err != nil {
		return fmt.Errorf("seal donor info: %w", err)
	}
	paymentDetails, err := r.seal(d.PaymentDetails)
	if err != nil {
		return fmt.Errorf("seal payment details: %w", err)
	}

	query := `INSERT INTO donations (id, user_id, amount, currency, order_ref, payment_ref, status,
		is_anonymous, donor_info, payment_details, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		d.ID, d.UserID, d.Amount.String(), d.Currency, d.OrderRef, d.PaymentRef, d.Status,
		d.IsAnonymous, donorInfo, paymentDetails, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", mapUniqueViolation(err))
	}
	return nil
}

// GetByOrderRef fetches a donation by its gateway order id.
func (r *DonationRepo) GetByOrderRef(ctx context.Context, orderRef string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE order_ref = $1`
	return r.scanDonation(r.pool.QueryRow(ctx, query, orderRef))
}

// TransitionFromPending moves a pending donation to a terminal state in one
// conditional statement. Concurrent callers race on the status predicate and
// exactly one of them gets the row back.
func (r *DonationRepo) TransitionFromPending(ctx context.Context, orderRef string, t domain.DonationTransition) (*domain.Donation, error) {
	paymentDetails, err := r.seal(t.PaymentDetails)
	if err != nil {
		return nil, fmt.Errorf("seal payment details: %w", err)
	}

	query := `UPDATE donations
		SET status = $2, payment_ref = $3, payment_details = $4, updated_at = $5
		WHERE order_ref = $1 AND status = 'pending'
		RETURNING ` + donationColumns

	d, err := r.scanDonation(r.pool.QueryRow(ctx, query,
		orderRef, t.Status, t.PaymentRef, paymentDetails, time.Now().UTC(),
	))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return d, nil
}

// SumAmountByStatus totals donation amounts in the given status.
func (r *DonationRepo) SumAmountByStatus(ctx context.Context, status domain.DonationStatus) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::text FROM donations WHERE status = $1`

	var raw string
	if err := r.pool.QueryRow(ctx, query, status).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("sum donations: %w", err)
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse donation sum %q: %w", raw, err)
	}
	return total, nil
}

// List fetches one page of donations, newest first, with the total match count.
func (r *DonationRepo) List(ctx context.Context, params domain.DonationListParams) ([]domain.Donation, int64, error) {
	where := `WHERE status = ANY($1)`
	args := []any{statusStrings(params.Statuses)}
	if params.UserID != nil {
		where += ` AND user_id = $2`
		args = append(args, *params.UserID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donations `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM donations %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		donationColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	donations, err := r.queryDonations(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

// ListByUser fetches all of a user's donations in the given statuses, newest first.
func (r *DonationRepo) ListByUser(ctx context.Context, userID uuid.UUID, statuses []domain.DonationStatus) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations
		WHERE user_id = $1 AND status = ANY($2) ORDER BY created_at DESC, id DESC`
	return r.queryDonations(ctx, query, userID, statusStrings(statuses))
}

func (r *DonationRepo) queryDonations(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var out []domain.Donation
	for rows.Next() {
		d, err := r.scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}
	return out, nil
}

// scanDonation returns (nil, nil) on pgx.ErrNoRows.
func (r *DonationRepo) scanDonation(row pgx.Row) (*domain.Donation, error) {
	d := &domain.Donation{}
	var (
		amount         string
		donorInfo      *string
		paymentDetails *string
	)
	err := row.Scan(
		&d.ID, &d.UserID, &amount, &d.Currency, &d.OrderRef, &d.PaymentRef, &d.Status,
		&d.IsAnonymous, &donorInfo, &paymentDetails, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan donation: %w", err)
	}

	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if donorInfo != nil {
		d.DonorInfo = &domain.DonorInfo{}
		if err := r.open(*donorInfo, d.DonorInfo); err != nil {
			return nil, fmt.Errorf("open donor info: %w", err)
		}
	}
	if paymentDetails != nil {
		d.PaymentDetails = &domain.PaymentDetails{}
		if err := r.open(*paymentDetails, d.PaymentDetails); err != nil {
			return nil, fmt.Errorf("open payment details: %w", err)
		}
	}
	return d, nil
}

// seal encodes v as JSON and encrypts it. A nil pointer stays NULL.
func (r *DonationRepo) seal(v any) (*string, error) {
	switch x := v.(type) {
	case *domain.DonorInfo:
		if x == nil {
			return nil, nil
		}
	case *domain.PaymentDetails:
		if x == nil {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	sealed, err := r.enc.Encrypt(string(raw))
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

func (r *DonationRepo) open(sealed string, dst any) error {
	raw, err := r.enc.Decrypt(sealed)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

func statusStrings(statuses []domain.DonationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

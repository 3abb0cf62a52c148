package postgres

import (
	"context"
	"errors"

	"alumni-platform/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const uniqueViolation = "23505"

// Unique constraint names from the migrations.
const (
	constraintOrderRef   = "donations_order_ref_key"
	constraintPaymentRef = "donations_payment_ref_key"
	constraintEmail      = "accounts_email_key"
)

// mapUniqueViolation turns a unique-constraint failure into its domain sentinel.
// Other errors are returned unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintOrderRef:
		return domain.ErrDuplicateOrderRef
	case constraintPaymentRef:
		return domain.ErrDuplicatePaymentRef
	case constraintEmail:
		return domain.ErrDuplicateEmail
	}
	return err
}

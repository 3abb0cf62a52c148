package postgres

import (
	"context"
	"testing"
	"time"

	"alumni-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountCols() []string {
	return []string{"id", "first_name", "last_name", "email", "password_hash",
		"graduation_year", "major", "created_at", "updated_at"}
}

func sampleAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:             uuid.New(),
		FirstName:      "Asha",
		LastName:       "Rao",
		Email:          "asha@example.com",
		PasswordHash:   "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		GraduationYear: 2012,
		Major:          "Physics",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func addAccount(rows *pgxmock.Rows, a *domain.Account) *pgxmock.Rows {
	return rows.AddRow(a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash,
		a.GraduationYear, a.Major, a.CreatedAt, a.UpdatedAt)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, "Asha", "Rao", "asha@example.com", a.PasswordHash, 2012, "Physics", a.CreatedAt, a.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err = repo.Create(context.Background(), sampleAccount())
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := sampleAccount()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(addAccount(pgxmock.NewRows(accountCols()), a))

	got, err := repo.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAccountRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(accountCols()))

	got, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepo_GetByIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a, b := sampleAccount(), sampleAccount()
	b.FirstName = "Vikram"
	missing := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id = ANY").
		WithArgs([]uuid.UUID{a.ID, b.ID, missing}).
		WillReturnRows(addAccount(addAccount(pgxmock.NewRows(accountCols()), a), b))

	got, err := repo.GetByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, missing})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Vikram", got[b.ID].FirstName)
	assert.NotContains(t, got, missing)
}

func TestAccountRepo_GetByIDs_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	got, err := NewAccountRepo(mock).GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query for an empty id set")
}

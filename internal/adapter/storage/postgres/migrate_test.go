package postgres

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Ordered(t *testing.T) {
	ms, err := Migrations()
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, "0001_accounts", ms[0].Version)
	assert.Equal(t, "0002_donations", ms[1].Version)
	assert.Equal(t, "0003_audit_logs", ms[2].Version)
	assert.Contains(t, ms[1].SQL, "donations_payment_ref_key")
}

func TestMigrate_SkipsApplied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0001_accounts").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0002_donations").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS donations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("0002_donations").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0003_audit_logs").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	n, err := Migrate(context.Background(), mock, zerolog.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0001_accounts").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS accounts").
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	n, err := Migrate(context.Background(), mock, zerolog.New(io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 0001_accounts")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

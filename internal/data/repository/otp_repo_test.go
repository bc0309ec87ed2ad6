package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"otp-service/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var otpRowColumns = []string{
	"id", "phone_number", "email", "otp_code", "type",
	"expires_at", "is_verified", "verified_at", "created_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, OTPRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewOTPRepository(mock, zaptest.NewLogger(t))
}

func TestOTPRepository_CreateAssignsStoreID(t *testing.T) {
	mock, repo := newMockRepo(t)

	expiresAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	createdAt := expiresAt.Add(-10 * time.Minute)
	id := uuid.New()
	otp := entity.NewOTP(entity.OTPTypeSMS, "+251900000000", "123456", expiresAt)

	mock.ExpectQuery("INSERT INTO otp_verifications").
		WithArgs(otp.PhoneNumber, otp.Email, "123456", entity.OTPTypeSMS, expiresAt, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, createdAt))

	require.NoError(t, repo.Create(context.Background(), otp))
	assert.Equal(t, id, otp.ID)
	assert.Equal(t, createdAt, otp.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_CreateWrapsError(t *testing.T) {
	mock, repo := newMockRepo(t)

	otp := entity.NewOTP(entity.OTPTypeEmail, "a@b.com", "123456", time.Now())
	mock.ExpectQuery("INSERT INTO otp_verifications").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), otp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create email OTP")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_FindUnverified(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	email := "a@b.com"
	expiresAt := time.Date(2026, 1, 2, 3, 14, 5, 0, time.UTC)
	createdAt := expiresAt.Add(-10 * time.Minute)

	mock.ExpectQuery("FROM otp_verifications").
		WithArgs(id, entity.OTPTypeEmail).
		WillReturnRows(pgxmock.NewRows(otpRowColumns).
			AddRow(id, nil, &email, "654321", entity.OTPTypeEmail, expiresAt, false, nil, createdAt))

	otp, err := repo.FindUnverified(context.Background(), id, entity.OTPTypeEmail)
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.Equal(t, id, otp.ID)
	assert.Nil(t, otp.PhoneNumber)
	assert.Equal(t, "a@b.com", otp.Destination())
	assert.Equal(t, "654321", otp.OTPCode)
	assert.False(t, otp.IsVerified)
	assert.Nil(t, otp.VerifiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_FindByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery("FROM otp_verifications").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	otp, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, otp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_MarkAsVerified(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	at := time.Now()

	mock.ExpectExec("UPDATE otp_verifications").
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE otp_verifications").
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.MarkAsVerified(context.Background(), id, at))
	assert.ErrorIs(t, repo.MarkAsVerified(context.Background(), id, at), ErrOTPAlreadyVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_Delete(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM otp_verifications WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM otp_verifications WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrOTPNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_DeleteUnverifiedByDestination(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`WHERE email = \$1`).
		WithArgs("a@b.com", entity.OTPTypeEmail).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`WHERE phone_number = \$1`).
		WithArgs("+251900000000", entity.OTPTypeSMS).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	n, err := repo.DeleteUnverifiedByDestination(context.Background(), entity.OTPTypeEmail, "a@b.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.DeleteUnverifiedByDestination(context.Background(), entity.OTPTypeSMS, "+251900000000")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_DeleteExpired(t *testing.T) {
	mock, repo := newMockRepo(t)

	before := time.Now()
	mock.ExpectExec(`WHERE expires_at < \$1`).
		WithArgs(before).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"otp-service/internal/data/entity"
	"otp-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPAlreadyVerified = errors.New("otp not found or already verified")
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.OTP, error)
	FindUnverified(ctx context.Context, id uuid.UUID, otpType entity.OTPType) (*entity.OTP, error)
	MarkAsVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteUnverifiedByDestination(ctx context.Context, otpType entity.OTPType, destination string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

const otpColumns = `id, phone_number, email, otp_code, type,
		       expires_at, is_verified, verified_at, created_at`

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otp_verifications (phone_number, email, otp_code, type,
		                               expires_at, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		otp.PhoneNumber,
		otp.Email,
		otp.OTPCode,
		otp.OTPType,
		otp.ExpiresAt,
		otp.IsVerified,
	).Scan(&otp.ID, &otp.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("type", string(otp.OTPType)),
		)
		return fmt.Errorf("create %s OTP: %w", otp.OTPType, err)
	}

	return nil
}

func (r *otpRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OTP, error) {
	query := `
		SELECT ` + otpColumns + `
		FROM otp_verifications
		WHERE id = $1
	`

	otp, err := scanOTP(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return nil, fmt.Errorf("find OTP %s: %w", id.String(), err)
	}

	return otp, nil
}

func (r *otpRepository) FindUnverified(ctx context.Context, id uuid.UUID, otpType entity.OTPType) (*entity.OTP, error) {
	query := `
		SELECT ` + otpColumns + `
		FROM otp_verifications
		WHERE id = $1
		  AND type = $2
		  AND is_verified = false
	`

	otp, err := scanOTP(r.db.QueryRow(ctx, query, id, otpType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find unverified OTP",
			zap.Error(err),
			zap.String("otp_id", id.String()),
			zap.String("type", string(otpType)),
		)
		return nil, fmt.Errorf("find unverified OTP %s type %s: %w", id.String(), otpType, err)
	}

	return otp, nil
}

func (r *otpRepository) MarkAsVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	query := `
		UPDATE otp_verifications
		SET is_verified = true, verified_at = $2
		WHERE id = $1 AND is_verified = false
	`

	result, err := r.db.Exec(ctx, query, id, verifiedAt)
	if err != nil {
		r.log.Error("Failed to mark OTP as verified",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return fmt.Errorf("mark OTP %s as verified: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrOTPAlreadyVerified
	}

	return nil
}

func (r *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM otp_verifications WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return fmt.Errorf("delete OTP %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrOTPNotFound
	}

	return nil
}

func (r *otpRepository) DeleteUnverifiedByDestination(ctx context.Context, otpType entity.OTPType, destination string) (int64, error) {
	column := "phone_number"
	if otpType == entity.OTPTypeEmail {
		column = "email"
	}

	query := `
		DELETE FROM otp_verifications
		WHERE ` + column + ` = $1
		  AND type = $2
		  AND is_verified = false
	`

	result, err := r.db.Exec(ctx, query, destination, otpType)
	if err != nil {
		r.log.Error("Failed to delete unverified OTPs",
			zap.Error(err),
			zap.String("type", string(otpType)),
		)
		return 0, fmt.Errorf("delete unverified %s OTPs: %w", otpType, err)
	}

	return result.RowsAffected(), nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM otp_verifications WHERE expires_at < $1`

	result, err := r.db.Exec(ctx, query, before)
	if err != nil {
		r.log.Error("Failed to delete expired OTPs", zap.Error(err))
		return 0, fmt.Errorf("delete expired OTPs: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanOTP(row pgx.Row) (*entity.OTP, error) {
	var otp entity.OTP
	err := row.Scan(
		&otp.ID,
		&otp.PhoneNumber,
		&otp.Email,
		&otp.OTPCode,
		&otp.OTPType,
		&otp.ExpiresAt,
		&otp.IsVerified,
		&otp.VerifiedAt,
		&otp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

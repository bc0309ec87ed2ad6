package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS otp_verifications (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		phone_number TEXT,
		email        TEXT,
		otp_code     TEXT NOT NULL,
		type         TEXT NOT NULL CHECK (type IN ('sms', 'email')),
		expires_at   TIMESTAMPTZ NOT NULL,
		is_verified  BOOLEAN NOT NULL DEFAULT FALSE,
		verified_at  TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK ((type = 'sms' AND phone_number IS NOT NULL) OR (type = 'email' AND email IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_otp_verifications_phone_unverified
		ON otp_verifications (phone_number) WHERE is_verified = FALSE`,
	`CREATE INDEX IF NOT EXISTS idx_otp_verifications_email_unverified
		ON otp_verifications (email) WHERE is_verified = FALSE`,
	`CREATE INDEX IF NOT EXISTS idx_otp_verifications_expires_at
		ON otp_verifications (expires_at)`,
}

// Migrate creates the OTP table and its indexes inside one transaction.
func Migrate(ctx context.Context, db PgxIface) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	return nil
}

package repository

import (
	"otp-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	OTP OTPRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		OTP: NewOTPRepository(db, log),
	}
}

// NewMemoryRepository wires every repository to its in-process implementation.
func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		OTP: NewMemoryOTPRepository(log),
	}
}

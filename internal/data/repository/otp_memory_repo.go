package repository

import (
	"context"
	"sync"
	"time"

	"otp-service/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryOTPRepository keeps OTP records in process memory. It backs
// STORE_DRIVER=memory for local development and the service tests.
type MemoryOTPRepository struct {
	mu   sync.RWMutex
	otps map[uuid.UUID]*entity.OTP
	log  *zap.Logger
}

func NewMemoryOTPRepository(log *zap.Logger) *MemoryOTPRepository {
	return &MemoryOTPRepository{
		otps: make(map[uuid.UUID]*entity.OTP),
		log:  log.With(zap.String("repository", "otp_memory")),
	}
}

func (r *MemoryOTPRepository) Create(ctx context.Context, otp *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	otp.ID = uuid.New()
	otp.CreatedAt = time.Now()
	r.otps[otp.ID] = otp.Clone()

	r.log.Debug("OTP stored",
		zap.String("otp_id", otp.ID.String()),
		zap.String("type", string(otp.OTPType)),
	)
	return nil
}

func (r *MemoryOTPRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	otp, ok := r.otps[id]
	if !ok {
		return nil, nil
	}
	return otp.Clone(), nil
}

func (r *MemoryOTPRepository) FindUnverified(ctx context.Context, id uuid.UUID, otpType entity.OTPType) (*entity.OTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	otp, ok := r.otps[id]
	if !ok || otp.OTPType != otpType || otp.IsVerified {
		return nil, nil
	}
	return otp.Clone(), nil
}

func (r *MemoryOTPRepository) MarkAsVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	otp, ok := r.otps[id]
	if !ok || otp.IsVerified {
		return ErrOTPAlreadyVerified
	}

	otp.IsVerified = true
	otp.VerifiedAt = &verifiedAt
	return nil
}

func (r *MemoryOTPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.otps[id]; !ok {
		return ErrOTPNotFound
	}
	delete(r.otps, id)
	return nil
}

func (r *MemoryOTPRepository) DeleteUnverifiedByDestination(ctx context.Context, otpType entity.OTPType, destination string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, otp := range r.otps {
		if otp.OTPType == otpType && !otp.IsVerified && otp.Destination() == destination {
			delete(r.otps, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryOTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, otp := range r.otps {
		if otp.ExpiresAt.Before(before) {
			delete(r.otps, id)
			deleted++
		}
	}
	return deleted, nil
}

// CountUnverified reports how many live unverified records exist for destination.
func (r *MemoryOTPRepository) CountUnverified(otpType entity.OTPType, destination string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, otp := range r.otps {
		if otp.OTPType == otpType && !otp.IsVerified && otp.Destination() == destination {
			count++
		}
	}
	return count
}

// Len returns the number of stored records.
func (r *MemoryOTPRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.otps)
}

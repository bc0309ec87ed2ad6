package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CleanupWorker sweeps expired codes on a fixed interval.
type CleanupWorker struct {
	service  OTPService
	interval time.Duration
	log      *zap.Logger
}

func NewCleanupWorker(service OTPService, interval time.Duration, log *zap.Logger) *CleanupWorker {
	return &CleanupWorker{
		service:  service,
		interval: interval,
		log:      log.With(zap.String("worker", "otp_cleanup")),
	}
}

// Run blocks until ctx is cancelled. A non-positive interval returns at once.
func (w *CleanupWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info("OTP cleanup worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("OTP cleanup worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("OTP cleanup worker stopped")
			return
		case <-ticker.C:
			w.service.CleanupExpiredOTPs(ctx)
		}
	}
}

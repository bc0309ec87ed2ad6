package wire

import (
	"otp-service/internal/adaptor"
	"otp-service/pkg/middleware"
	"otp-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOTP(
	r chi.Router,
	otpHandler *adaptor.OTPHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/otp", func(r chi.Router) {
		r.Post("/sms/send", otpHandler.SendSMS)
		r.Post("/email/send", otpHandler.SendEmail)
		r.Post("/verify", otpHandler.Verify)
		r.Post("/resend", otpHandler.Resend)
		r.Get("/{id}/status", otpHandler.Status)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(middleware.APIKey(config.Admin.APIKey, log)).
		Post("/api/admin/otp/cleanup", otpHandler.Cleanup)
}

package usecase

import (
	"otp-service/internal/data/repository"
	"otp-service/internal/gateway"
	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	OTP OTPService
}

func NewService(
	repo *repository.Repository,
	sms gateway.SMSGateway,
	email gateway.EmailGateway,
	limiter SendLimiter,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		OTP: NewOTPService(repo.OTP, sms, email, limiter, config, log),
	}
}

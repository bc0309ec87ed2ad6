package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"otp-service/internal/data/entity"
	"otp-service/internal/data/repository"
	"otp-service/internal/dto/response"
	"otp-service/internal/gateway"
	"otp-service/internal/ratelimit"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgGenerateFailed     = "Failed to generate OTP. Please try again."
	msgSMSFailed          = "Failed to send SMS. Please check your phone number and try again."
	msgEmailFailed        = "Failed to send email. Please check your email address and try again."
	msgDestinationMissing = "Either phone number or email is required"
	msgInvalidOrExpired   = "Invalid or expired OTP"
	msgExpired            = "OTP has expired. Please request a new one."
	msgInvalidCode        = "Invalid OTP code"
	msgVerifyFailed       = "Failed to verify OTP. Please try again."
	msgVerified           = "OTP verified successfully"
	msgSMSSent            = "OTP sent successfully to your phone"
	msgEmailSent          = "OTP sent successfully to your email"
)

// OTPService issues codes to a phone or email and verifies them. Every
// failure is reported in the returned result, never as a Go error.
type OTPService interface {
	SendSMSOTP(ctx context.Context, phoneNumber string) *response.OTPResponse
	SendEmailOTP(ctx context.Context, email string) *response.OTPResponse
	VerifyOTP(ctx context.Context, otpID, code string, otpType entity.OTPType) *response.VerifyOTPResponse
	ResendOTP(ctx context.Context, phoneNumber, email *string) *response.OTPResponse
	CleanupExpiredOTPs(ctx context.Context)
	GetOTPStatus(ctx context.Context, otpID string) *response.OTPStatusResponse
}

// SendLimiter throttles issuance per destination. A nil limiter allows everything.
type SendLimiter interface {
	Allow(ctx context.Context, destination string) error
}

type otpService struct {
	repo       repository.OTPRepository
	sms        gateway.SMSGateway
	email      gateway.EmailGateway
	limiter    SendLimiter
	ttl        time.Duration
	codeLength int
	appName    string
	log        *zap.Logger
	now        func() time.Time
}

func NewOTPService(
	repo repository.OTPRepository,
	sms gateway.SMSGateway,
	email gateway.EmailGateway,
	limiter SendLimiter,
	config *utils.Config,
	log *zap.Logger,
) OTPService {
	return &otpService{
		repo:       repo,
		sms:        sms,
		email:      email,
		limiter:    limiter,
		ttl:        config.OTP.TTL(),
		codeLength: config.OTP.Length,
		appName:    config.Email.FromName,
		log:        log.With(zap.String("service", "otp")),
		now:        time.Now,
	}
}

func (s *otpService) SendSMSOTP(ctx context.Context, phoneNumber string) *response.OTPResponse {
	if resp := s.checkLimit(ctx, phoneNumber); resp != nil {
		return resp
	}
	return s.issue(ctx, entity.OTPTypeSMS, phoneNumber)
}

func (s *otpService) SendEmailOTP(ctx context.Context, email string) *response.OTPResponse {
	if resp := s.checkLimit(ctx, email); resp != nil {
		return resp
	}
	return s.issue(ctx, entity.OTPTypeEmail, email)
}

// issue persists a fresh code and hands it to the channel gateway. A delivery
// failure removes the record again.
func (s *otpService) issue(ctx context.Context, otpType entity.OTPType, destination string) *response.OTPResponse {
	// 1. Generate code
	code, err := utils.GenerateOTP(s.codeLength)
	if err != nil {
		s.log.Error("Failed to generate OTP code", zap.Error(err))
		return response.OTPFailure(response.ErrorKindPersistence, msgGenerateFailed)
	}

	// 2. Persist
	expiresAt := s.now().Add(s.ttl)
	otp := entity.NewOTP(otpType, destination, code, expiresAt)
	if err := s.repo.Create(ctx, otp); err != nil {
		s.log.Error("Failed to store OTP", zap.Error(err), zap.String("type", string(otpType)))
		return response.OTPFailure(response.ErrorKindPersistence, msgGenerateFailed)
	}

	// 3. Deliver
	if err := s.deliver(ctx, otpType, destination, code); err != nil {
		s.log.Warn("OTP delivery failed",
			zap.Error(err),
			zap.String("otp_id", otp.ID.String()),
			zap.String("type", string(otpType)),
		)
		if delErr := s.repo.Delete(ctx, otp.ID); delErr != nil && !errors.Is(delErr, repository.ErrOTPNotFound) {
			s.log.Error("Failed to remove undelivered OTP",
				zap.Error(delErr),
				zap.String("otp_id", otp.ID.String()),
			)
		}
		if otpType == entity.OTPTypeSMS {
			return response.OTPFailure(response.ErrorKindDelivery, msgSMSFailed)
		}
		return response.OTPFailure(response.ErrorKindDelivery, msgEmailFailed)
	}

	s.log.Info("OTP issued",
		zap.String("otp_id", otp.ID.String()),
		zap.String("type", string(otpType)),
		zap.Time("expires_at", expiresAt),
	)

	message := msgSMSSent
	if otpType == entity.OTPTypeEmail {
		message = msgEmailSent
	}
	return &response.OTPResponse{
		Success:   true,
		Message:   message,
		OTPID:     otp.ID.String(),
		ExpiresAt: &expiresAt,
	}
}

func (s *otpService) deliver(ctx context.Context, otpType entity.OTPType, destination, code string) error {
	if otpType == entity.OTPTypeSMS {
		return s.sms.SendSMS(ctx, gateway.SMSMessage{
			Destination: destination,
			Code:        code,
			Message:     smsMessage(code, s.ttl),
		})
	}

	body, err := emailBody(s.appName, code, s.ttl)
	if err != nil {
		return err
	}
	return s.email.SendEmail(ctx, gateway.EmailMessage{
		Destination: destination,
		Code:        code,
		Subject:     emailSubject,
		HTMLBody:    body,
	})
}

// checkLimit returns a rate_limited result when the destination is throttled.
// Limiter outages are logged and let the request through.
func (s *otpService) checkLimit(ctx context.Context, destination string) *response.OTPResponse {
	if s.limiter == nil {
		return nil
	}

	err := s.limiter.Allow(ctx, destination)
	if err == nil {
		return nil
	}

	var limitErr *ratelimit.LimitError
	if errors.As(err, &limitErr) {
		s.log.Warn("OTP send rate limited", zap.Duration("retry_after", limitErr.RetryAfter))
		resp := response.OTPFailure(response.ErrorKindRateLimited, limitErr.Error())
		resp.RetryAfterSeconds = int(limitErr.RetryAfter.Round(time.Second) / time.Second)
		return resp
	}

	s.log.Warn("Send limiter unavailable, allowing request", zap.Error(err))
	return nil
}

func (s *otpService) VerifyOTP(ctx context.Context, otpID, code string, otpType entity.OTPType) *response.VerifyOTPResponse {
	id, err := uuid.Parse(otpID)
	if err != nil || !otpType.IsValid() {
		s.log.Warn("Verify rejected", zap.String("otp_id", otpID), zap.String("type", string(otpType)))
		return response.VerifyFailure(response.ErrorKindInvalidOrExpired, msgInvalidOrExpired)
	}

	// 1. Lookup live record
	otp, err := s.repo.FindUnverified(ctx, id, otpType)
	if err != nil {
		s.log.Error("Failed to look up OTP", zap.Error(err), zap.String("otp_id", otpID))
		return response.VerifyFailure(response.ErrorKindPersistence, msgVerifyFailed)
	}
	if otp == nil {
		s.log.Warn("OTP not found or already verified", zap.String("otp_id", otpID))
		return response.VerifyFailure(response.ErrorKindInvalidOrExpired, msgInvalidOrExpired)
	}

	// 2. Expiry
	now := s.now()
	if otp.IsExpired(now) {
		if err := s.repo.Delete(ctx, otp.ID); err != nil && !errors.Is(err, repository.ErrOTPNotFound) {
			s.log.Error("Failed to delete expired OTP", zap.Error(err), zap.String("otp_id", otpID))
		}
		s.log.Info("Expired OTP removed on verify", zap.String("otp_id", otpID))
		return response.VerifyFailure(response.ErrorKindExpired, msgExpired)
	}

	// 3. Code
	if subtle.ConstantTimeCompare([]byte(code), []byte(otp.OTPCode)) != 1 {
		s.log.Warn("Invalid OTP code submitted", zap.String("otp_id", otpID))
		return response.VerifyFailure(response.ErrorKindInvalidCode, msgInvalidCode)
	}

	// 4. Single use
	if err := s.repo.MarkAsVerified(ctx, otp.ID, now); err != nil {
		if errors.Is(err, repository.ErrOTPAlreadyVerified) {
			s.log.Warn("OTP verified concurrently", zap.String("otp_id", otpID))
			return response.VerifyFailure(response.ErrorKindInvalidOrExpired, msgInvalidOrExpired)
		}
		s.log.Error("Failed to mark OTP verified", zap.Error(err), zap.String("otp_id", otpID))
		return response.VerifyFailure(response.ErrorKindPersistence, msgVerifyFailed)
	}

	s.log.Info("OTP verified", zap.String("otp_id", otpID), zap.String("type", string(otpType)))
	return &response.VerifyOTPResponse{Success: true, Message: msgVerified, IsValid: true}
}

func (s *otpService) ResendOTP(ctx context.Context, phoneNumber, email *string) *response.OTPResponse {
	var (
		otpType     entity.OTPType
		destination string
	)
	switch {
	case phoneNumber != nil && *phoneNumber != "":
		otpType, destination = entity.OTPTypeSMS, *phoneNumber
	case email != nil && *email != "":
		otpType, destination = entity.OTPTypeEmail, *email
	default:
		return response.OTPFailure(response.ErrorKindValidation, msgDestinationMissing)
	}

	if resp := s.checkLimit(ctx, destination); resp != nil {
		return resp
	}

	deleted, err := s.repo.DeleteUnverifiedByDestination(ctx, otpType, destination)
	if err != nil {
		s.log.Error("Failed to clear previous OTPs", zap.Error(err), zap.String("type", string(otpType)))
		return response.OTPFailure(response.ErrorKindPersistence, msgGenerateFailed)
	}
	if deleted > 0 {
		s.log.Info("Previous OTPs superseded", zap.Int64("count", deleted), zap.String("type", string(otpType)))
	}

	return s.issue(ctx, otpType, destination)
}

func (s *otpService) CleanupExpiredOTPs(ctx context.Context) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("OTP cleanup failed", zap.Error(err))
		return
	}
	s.log.Info("Expired OTPs cleaned up", zap.Int64("count", deleted))
}

func (s *otpService) GetOTPStatus(ctx context.Context, otpID string) *response.OTPStatusResponse {
	id, err := uuid.Parse(otpID)
	if err != nil {
		return &response.OTPStatusResponse{}
	}

	otp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to read OTP status", zap.Error(err), zap.String("otp_id", otpID))
		return &response.OTPStatusResponse{}
	}
	if otp == nil {
		return &response.OTPStatusResponse{}
	}

	otpType := string(otp.OTPType)
	return &response.OTPStatusResponse{
		Exists:     true,
		IsVerified: otp.IsVerified,
		IsExpired:  otp.IsExpired(s.now()),
		Type:       &otpType,
	}
}

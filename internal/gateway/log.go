package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogSMSGateway prints codes to the console instead of sending them.
// Only meant for local development.
type LogSMSGateway struct {
	log *zap.Logger
}

func NewLogSMSGateway(log *zap.Logger) *LogSMSGateway {
	return &LogSMSGateway{log: log.With(zap.String("gateway", "sms_log"))}
}

func (g *LogSMSGateway) SendSMS(ctx context.Context, msg SMSMessage) error {
	g.log.Info("OTP SMS (not delivered)",
		zap.String("to", msg.Destination),
		zap.String("otp_code", msg.Code),
		zap.String("message", msg.Message),
	)
	fmt.Printf("\n📱 OTP for %s: %s\n\n", msg.Destination, msg.Code)
	return nil
}

type LogEmailGateway struct {
	log *zap.Logger
}

func NewLogEmailGateway(log *zap.Logger) *LogEmailGateway {
	return &LogEmailGateway{log: log.With(zap.String("gateway", "email_log"))}
}

func (g *LogEmailGateway) SendEmail(ctx context.Context, msg EmailMessage) error {
	g.log.Info("OTP email (not delivered)",
		zap.String("to", msg.Destination),
		zap.String("otp_code", msg.Code),
		zap.String("subject", msg.Subject),
	)
	fmt.Printf("\n📧 OTP for %s: %s\n\n", msg.Destination, msg.Code)
	return nil
}

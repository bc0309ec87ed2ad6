// Package gateway delivers issued codes through external SMS and email
// providers. Gateways are stateless and never retry.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("gateway not configured")

type SMSMessage struct {
	Destination string
	Code        string
	Message     string
}

type EmailMessage struct {
	Destination string
	Code        string
	Subject     string
	HTMLBody    string
}

type SMSGateway interface {
	SendSMS(ctx context.Context, msg SMSMessage) error
}

type EmailGateway interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// NewSMSGateway selects the SMS provider named in config.
func NewSMSGateway(config utils.SMSConfig, log *zap.Logger) (SMSGateway, error) {
	switch config.Provider {
	case "", "log":
		return NewLogSMSGateway(log), nil
	case "http":
		return NewHTTPSMSGateway(config, log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", config.Provider)
	}
}

// NewEmailGateway selects the email provider named in config.
func NewEmailGateway(config utils.EmailConfig, log *zap.Logger) (EmailGateway, error) {
	switch config.Provider {
	case "", "log":
		return NewLogEmailGateway(log), nil
	case "smtp":
		return NewSMTPEmailGateway(config, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", config.Provider)
	}
}

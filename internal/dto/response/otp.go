package response

import "time"

// ErrorKind tags a failed result so callers can branch without parsing messages.
type ErrorKind string

const (
	ErrorKindPersistence      ErrorKind = "persistence"
	ErrorKindDelivery         ErrorKind = "delivery"
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindInvalidOrExpired ErrorKind = "invalid_or_expired"
	ErrorKindExpired          ErrorKind = "expired"
	ErrorKindInvalidCode      ErrorKind = "invalid_code"
	ErrorKindRateLimited      ErrorKind = "rate_limited"
)

type OTPResponse struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	OTPID             string     `json:"otp_id,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ErrorKind         ErrorKind  `json:"error_kind,omitempty"`
	RetryAfterSeconds int        `json:"retry_after_seconds,omitempty"`
}

type VerifyOTPResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	IsValid   bool      `json:"is_valid"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

type OTPStatusResponse struct {
	Exists     bool    `json:"exists"`
	IsVerified bool    `json:"is_verified"`
	IsExpired  bool    `json:"is_expired"`
	Type       *string `json:"type,omitempty"`
}

func OTPFailure(kind ErrorKind, message string) *OTPResponse {
	return &OTPResponse{Success: false, Message: message, ErrorKind: kind}
}

func VerifyFailure(kind ErrorKind, message string) *VerifyOTPResponse {
	return &VerifyOTPResponse{Success: false, Message: message, IsValid: false, ErrorKind: kind}
}

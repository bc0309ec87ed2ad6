package request

type SendSMSOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
}

type SendEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	OTPID   string `json:"otp_id" validate:"required,uuid"`
	OTPCode string `json:"otp_code" validate:"required,numeric"`
	Type    string `json:"type" validate:"required,oneof=sms email"`
}

// ResendOTPRequest takes one destination; phone_number wins when both are set.
type ResendOTPRequest struct {
	PhoneNumber *string `json:"phone_number,omitempty" validate:"required_without=Email,omitempty,min=7,max=20"`
	Email       *string `json:"email,omitempty" validate:"required_without=PhoneNumber,omitempty,email"`
}

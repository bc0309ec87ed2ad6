package entity

import "time"

type OTPType string

const (
	OTPTypeSMS   OTPType = "sms"
	OTPTypeEmail OTPType = "email"
)

func (t OTPType) IsValid() bool {
	return t == OTPTypeSMS || t == OTPTypeEmail
}

// OTP is one issued verification code. Exactly one of PhoneNumber or Email is
// set, matching OTPType. OTPCode and ExpiresAt never change after insert.
type OTP struct {
	BaseSimple
	PhoneNumber *string    `db:"phone_number"`
	Email       *string    `db:"email"`
	OTPCode     string     `db:"otp_code"`
	OTPType     OTPType    `db:"type"`
	ExpiresAt   time.Time  `db:"expires_at"`
	IsVerified  bool       `db:"is_verified"`
	VerifiedAt  *time.Time `db:"verified_at"`
}

// Destination returns the phone number or email the code was issued for.
func (o *OTP) Destination() string {
	switch o.OTPType {
	case OTPTypeSMS:
		if o.PhoneNumber != nil {
			return *o.PhoneNumber
		}
	case OTPTypeEmail:
		if o.Email != nil {
			return *o.Email
		}
	}
	return ""
}

func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// NewOTP builds an unverified record for destination; the store assigns the ID.
func NewOTP(otpType OTPType, destination, code string, expiresAt time.Time) *OTP {
	otp := &OTP{
		OTPCode:   code,
		OTPType:   otpType,
		ExpiresAt: expiresAt,
	}
	if otpType == OTPTypeSMS {
		otp.PhoneNumber = &destination
	} else {
		otp.Email = &destination
	}
	return otp
}

func (o *OTP) Clone() *OTP {
	c := *o
	if o.PhoneNumber != nil {
		v := *o.PhoneNumber
		c.PhoneNumber = &v
	}
	if o.Email != nil {
		v := *o.Email
		c.Email = &v
	}
	if o.VerifiedAt != nil {
		v := *o.VerifiedAt
		c.VerifiedAt = &v
	}
	return &c
}


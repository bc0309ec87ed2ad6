package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTP_Destination(t *testing.T) {
	expires := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)

	sms := NewOTP(OTPTypeSMS, "+251900000000", "123456", expires)
	require.NotNil(t, sms.PhoneNumber)
	assert.Nil(t, sms.Email)
	assert.Equal(t, "+251900000000", sms.Destination())
	assert.False(t, sms.IsVerified)

	email := NewOTP(OTPTypeEmail, "a@b.com", "654321", expires)
	require.NotNil(t, email.Email)
	assert.Nil(t, email.PhoneNumber)
	assert.Equal(t, "a@b.com", email.Destination())
}

func TestOTP_IsExpired(t *testing.T) {
	expires := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)
	otp := NewOTP(OTPTypeSMS, "+251900000000", "123456", expires)

	assert.False(t, otp.IsExpired(expires.Add(-time.Second)))
	assert.False(t, otp.IsExpired(expires))
	assert.True(t, otp.IsExpired(expires.Add(time.Nanosecond)))
}

func TestOTP_CloneIsDeep(t *testing.T) {
	at := time.Now()
	otp := NewOTP(OTPTypeEmail, "a@b.com", "123456", at)
	otp.VerifiedAt = &at

	c := otp.Clone()
	*c.Email = "x@y.com"
	*c.VerifiedAt = at.Add(time.Hour)

	assert.Equal(t, "a@b.com", *otp.Email)
	assert.Equal(t, at, *otp.VerifiedAt)
}

func TestOTPType_IsValid(t *testing.T) {
	assert.True(t, OTPTypeSMS.IsValid())
	assert.True(t, OTPTypeEmail.IsValid())
	assert.False(t, OTPType("voice").IsValid())
}

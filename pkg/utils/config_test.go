package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "otp-service", config.App.Name)
	assert.Equal(t, "8080", config.App.Port)
	assert.Equal(t, []string{"*"}, config.App.AllowedOrigins)
	assert.Equal(t, "postgres", config.Database.Driver)
	assert.Equal(t, 10, config.OTP.ExpiryMinutes)
	assert.Equal(t, 6, config.OTP.Length)
	assert.Equal(t, 10*time.Minute, config.OTP.TTL())
	assert.Zero(t, config.OTP.CleanupInterval)
	assert.Equal(t, "log", config.SMS.Provider)
	assert.Equal(t, 10*time.Second, config.SMS.Timeout)
	assert.Equal(t, "log", config.Email.Provider)
	assert.Equal(t, 45*time.Second, config.Redis.SendCooldown)
	assert.Equal(t, 5, config.Redis.MaxPerWindow)
}

func TestLoadConfig_EnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	envFile := "PORT=9090\nSTORE_DRIVER=MEMORY\nOTP_EXPIRY_MINUTES=5\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0o600))

	t.Setenv("OTP_CLEANUP_INTERVAL", "2m")
	t.Setenv("SMS_PROVIDER", "HTTP")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", config.App.Port)
	assert.Equal(t, "memory", config.Database.Driver)
	assert.Equal(t, 5*time.Minute, config.OTP.TTL())
	assert.Equal(t, 2*time.Minute, config.OTP.CleanupInterval)
	assert.Equal(t, "http", config.SMS.Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.App.AllowedOrigins)
}

func TestOTPConfigTTL_FallsBackToTenMinutes(t *testing.T) {
	assert.Equal(t, 10*time.Minute, OTPConfig{}.TTL())
}

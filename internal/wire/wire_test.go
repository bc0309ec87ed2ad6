package wire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"otp-service/internal/data/repository"
	"otp-service/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App:   utils.AppConfig{AllowedOrigins: []string{"*"}},
		OTP:   utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		SMS:   utils.SMSConfig{Provider: "log"},
		Email: utils.EmailConfig{Provider: "log", FromName: "Community Portal"},
		Admin: utils.AdminConfig{APIKey: "s3cret"},
	}
}

func post(t *testing.T, h http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWiring_Routes(t *testing.T) {
	log := zaptest.NewLogger(t)
	app, err := Wiring(context.Background(), repository.NewMemoryRepository(log), testConfig(), log)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = post(t, app.Router, "/api/otp/sms/send", `{"phone_number":"+251900000000"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Data struct {
			OTPID string `json:"otp_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.OTPID)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/otp/"+env.Data.OTPID+"/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exists":true`)

	rec = post(t, app.Router, "/api/admin/otp/cleanup", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(t, app.Router, "/api/admin/otp/cleanup", "", map[string]string{"X-API-Key": "s3cret"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWiring_RedisLimiter(t *testing.T) {
	log := zaptest.NewLogger(t)
	mr := miniredis.RunT(t)

	config := testConfig()
	config.Redis = utils.RedisConfig{Addr: mr.Addr(), SendCooldown: 0, SendWindow: 10 * time.Minute, MaxPerWindow: 1}

	app, err := Wiring(context.Background(), repository.NewMemoryRepository(log), config, log)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	rec := post(t, app.Router, "/api/otp/email/send", `{"email":"a@b.com"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = post(t, app.Router, "/api/otp/email/send", `{"email":"a@b.com"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestWiring_UnknownProvider(t *testing.T) {
	log := zaptest.NewLogger(t)
	config := testConfig()
	config.SMS.Provider = "carrier-pigeon"

	_, err := Wiring(context.Background(), repository.NewMemoryRepository(log), config, log)
	assert.Error(t, err)
}

func TestWiring_RedisUnreachable(t *testing.T) {
	log := zaptest.NewLogger(t)
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	config := testConfig()
	config.Redis.Addr = addr

	_, err := Wiring(context.Background(), repository.NewMemoryRepository(log), config, log)
	assert.Error(t, err)
}

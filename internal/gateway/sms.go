package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

// HTTPSMSGateway posts a form-encoded message to a bulk SMS API
// (Africa's Talking style: username, to, message, from + apiKey header).
type HTTPSMSGateway struct {
	apiURL   string
	username string
	apiKey   string
	senderID string
	client   *http.Client
	log      *zap.Logger
}

func NewHTTPSMSGateway(config utils.SMSConfig, log *zap.Logger) *HTTPSMSGateway {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPSMSGateway{
		apiURL:   config.APIURL,
		username: config.Username,
		apiKey:   config.APIKey,
		senderID: config.SenderID,
		client:   &http.Client{Timeout: timeout},
		log:      log.With(zap.String("gateway", "sms_http")),
	}
}

func (g *HTTPSMSGateway) SendSMS(ctx context.Context, msg SMSMessage) error {
	if g.apiURL == "" || g.apiKey == "" {
		return fmt.Errorf("sms: %w", ErrNotConfigured)
	}

	start := time.Now()

	form := url.Values{}
	form.Set("username", g.username)
	form.Set("to", msg.Destination)
	form.Set("message", msg.Message)
	if g.senderID != "" {
		form.Set("from", g.senderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("SMS request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn("SMS provider rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(body)),
			zap.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}

	g.log.Info("SMS sent",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	OTP      OTPConfig
	SMS      SMSConfig
	Email    EmailConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type OTPConfig struct {
	ExpiryMinutes   int
	Length          int
	CleanupInterval time.Duration
}

// TTL returns the lifetime of a newly issued code.
func (c OTPConfig) TTL() time.Duration {
	if c.ExpiryMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

type SMSConfig struct {
	Provider string
	APIURL   string
	Username string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

type EmailConfig struct {
	Provider string
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type RedisConfig struct {
	Addr         string
	Password     string
	SendCooldown time.Duration
	SendWindow   time.Duration
	MaxPerWindow int
}

type AdminConfig struct {
	APIKey string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "otp-service")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_CLEANUP_INTERVAL", "0s")
	v.SetDefault("SMS_PROVIDER", "log")
	v.SetDefault("SMS_TIMEOUT_SECONDS", 10)
	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM_NAME", "Community Portal")
	v.SetDefault("OTP_SEND_COOLDOWN", "45s")
	v.SetDefault("OTP_SEND_WINDOW", "10m")
	v.SetDefault("OTP_SEND_MAX_PER_WINDOW", 5)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Port:           v.GetString("PORT"),
			Debug:          v.GetBool("DEBUG"),
			LogPath:        v.GetString("LOG_PATH"),
			AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		OTP: OTPConfig{
			ExpiryMinutes:   v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:          v.GetInt("OTP_LENGTH"),
			CleanupInterval: v.GetDuration("OTP_CLEANUP_INTERVAL"),
		},
		SMS: SMSConfig{
			Provider: strings.ToLower(v.GetString("SMS_PROVIDER")),
			APIURL:   v.GetString("SMS_API_URL"),
			Username: v.GetString("SMS_USERNAME"),
			APIKey:   v.GetString("SMS_API_KEY"),
			SenderID: v.GetString("SMS_SENDER_ID"),
			Timeout:  time.Duration(v.GetInt("SMS_TIMEOUT_SECONDS")) * time.Second,
		},
		Email: EmailConfig{
			Provider: strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
			FromName: v.GetString("EMAIL_FROM_NAME"),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASS"),
			SendCooldown: v.GetDuration("OTP_SEND_COOLDOWN"),
			SendWindow:   v.GetDuration("OTP_SEND_WINDOW"),
			MaxPerWindow: v.GetInt("OTP_SEND_MAX_PER_WINDOW"),
		},
		Admin: AdminConfig{
			APIKey: v.GetString("ADMIN_API_KEY"),
		},
	}

	return config, nil
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

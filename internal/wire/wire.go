// internal/wire/wire.go
package wire

import (
	"context"
	"fmt"
	"net/http"

	"otp-service/internal/adaptor"
	"otp-service/internal/data/repository"
	"otp-service/internal/gateway"
	"otp-service/internal/ratelimit"
	"otp-service/internal/usecase"
	"otp-service/pkg/middleware"
	"otp-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router and everything that needs closing on shutdown.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	redis   *redis.Client
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// Wiring builds gateways, the optional limiter, services, handlers and routes.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	sms, err := gateway.NewSMSGateway(config.SMS, logger)
	if err != nil {
		return nil, err
	}

	email, err := gateway.NewEmailGateway(config.Email, logger)
	if err != nil {
		return nil, err
	}

	app := &App{}

	var limiter usecase.SendLimiter
	if config.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
		})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.redis.Close()
			return nil, fmt.Errorf("connect redis %s: %w", config.Redis.Addr, err)
		}
		limiter = ratelimit.NewLimiter(app.redis,
			config.Redis.SendCooldown,
			config.Redis.SendWindow,
			config.Redis.MaxPerWindow,
			logger,
		)
		logger.Info("OTP send limiter enabled", zap.String("redis", config.Redis.Addr))
	}

	app.Service = usecase.NewService(repo, sms, email, limiter, config, logger)
	handler := adaptor.NewHandler(app.Service, logger)
	app.Router = setupRouter(handler, config, logger)

	return app, nil
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	// Apply routes
	wireOTP(r, handler.OTP, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

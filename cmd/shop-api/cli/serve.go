package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/ananses3m/shop-api/docs"
	"github.com/ananses3m/shop-api/internal/api"
	"github.com/ananses3m/shop-api/internal/api/handler"
	"github.com/ananses3m/shop-api/internal/core/ports"
	"github.com/ananses3m/shop-api/internal/core/service"
	"github.com/ananses3m/shop-api/internal/infrastructure/config"
	"github.com/ananses3m/shop-api/internal/infrastructure/db/mongo"
	"github.com/ananses3m/shop-api/internal/infrastructure/db/redis"
	"github.com/ananses3m/shop-api/internal/infrastructure/mail"
	"github.com/ananses3m/shop-api/internal/infrastructure/media"
	"github.com/ananses3m/shop-api/internal/infrastructure/payment"
	"github.com/ananses3m/shop-api/internal/infrastructure/queue"
	"github.com/ananses3m/shop-api/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, portOverride string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if portOverride != "" {
		cfg.Port = portOverride
	}

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	rdb, throttle := connectThrottle(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// --- Outbound adapters ---
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, cfg.Mail.QueueSize, mail.NewSMTPSender(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}), logger.Component("mail"))
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	uploader, err := media.New(ctx, media.Config{
		Provider: cfg.Media.Provider,
		Cloudinary: media.CloudinaryConfig{
			CloudName: cfg.Media.CloudinaryCloudName,
			APIKey:    cfg.Media.CloudinaryAPIKey,
			APISecret: cfg.Media.CloudinaryAPISecret,
		},
		S3: media.S3Config{
			Region:        cfg.Media.S3Region,
			Endpoint:      cfg.Media.S3Endpoint,
			Bucket:        cfg.Media.S3Bucket,
			AccessKey:     cfg.Media.S3AccessKey,
			SecretKey:     cfg.Media.S3SecretKey,
			PublicBaseURL: cfg.Media.S3PublicBaseURL,
		},
	})
	if err != nil {
		return fmt.Errorf("media: %w", err)
	}

	momo := payment.NewMomoClient(payment.Config{
		BaseURL:           cfg.Momo.BaseURL,
		SubscriptionKey:   cfg.Momo.SubscriptionKey,
		APIUser:           cfg.Momo.APIUser,
		APIKey:            cfg.Momo.APIKey,
		TargetEnvironment: cfg.Momo.TargetEnvironment,
		CallbackURL:       cfg.Momo.CallbackURL,
	})

	// --- Services ---
	users := mongo.NewUserRepository(db)
	auth := service.NewAuthService(users, service.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
		ResetTTL:   cfg.Auth.ResetTTL,
	})
	resets := service.NewPasswordResetService(users, auth, dispatcher, throttle,
		cfg.Auth.ResetLinkBase, auth.ResetTTL(), logger.Component("password-reset"))
	payments := service.NewPaymentService(momo, service.PaymentConfig{
		Currency:     cfg.Momo.Currency,
		PayerMessage: cfg.Momo.PayerMessage,
	}, logger.Component("payments"))

	healthChecks := map[string]handler.HealthCheck{
		"mongodb": handler.MongoCheck(db),
		"redis":   nil,
	}
	if rdb != nil {
		healthChecks["redis"] = handler.RedisCheck(rdb)
	}

	e := api.NewRouter(api.Dependencies{
		Auth:           auth,
		Verifier:       auth,
		Users:          service.NewUserService(users, auth, logger.Component("users")),
		Resets:         resets,
		Products:       service.NewProductService(mongo.NewProductRepository(db), logger.Component("products")),
		Orders:         service.NewOrderService(mongo.NewOrderRepository(db), logger.Component("orders")),
		Uploads:        service.NewUploadService(uploader, cfg.Media.UploadPreset, logger.Component("uploads")),
		Payments:       payments,
		PayPalClientID: cfg.PayPal.ClientID,
		HealthChecks:   healthChecks,
		Logger:         logger.Component("http"),
		HTTP: api.HTTPOptions{
			CORSOrigins:   cfg.HTTP.CORSOrigins,
			BodyLimit:     cfg.HTTP.BodyLimit,
			AuthRateLimit: cfg.HTTP.AuthRateLimit,
		},
	})

	// --- Run ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}

// connectThrottle returns the Redis client and reset cooldown when both are
// configured. Redis being unreachable at boot disables the cooldown.
func connectThrottle(ctx context.Context, cfg *config.Config) (*goredis.Client, ports.ResetThrottle) {
	log := logger.Component("redis")
	if cfg.Redis.Addr == "" {
		log.Info().Msg("redis disabled")
		return nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, reset cooldown disabled")
		return nil, nil
	}

	if cfg.Auth.ResetCooldown <= 0 {
		return rdb, nil
	}
	return rdb, redis.NewResetThrottle(rdb, cfg.Auth.ResetCooldown)
}

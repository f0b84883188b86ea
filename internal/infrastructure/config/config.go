package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	HTTP   HTTPConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Mail   MailConfig
	Media  MediaConfig
	Momo   MomoConfig
	PayPal PayPalConfig
}

type HTTPConfig struct {
	CORSOrigins     []string      `env:"CORS_ORIGINS,     default=*"`
	BodyLimit       string        `env:"BODY_LIMIT,       default=50M"`
	AuthRateLimit   int           `env:"AUTH_RATE_LIMIT,  default=20"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ananses3m_shop"`
}

// RedisConfig points at the throttle store. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TOKEN_TTL,      default=720h"`
	ResetTTL      time.Duration `env:"RESET_TOKEN_TTL,        default=30s"`
	ResetLinkBase string        `env:"RESET_LINK_BASE_URL,    default=http://localhost:3000"`
	ResetCooldown time.Duration `env:"RESET_REQUEST_COOLDOWN, default=30s"`
}

type MailConfig struct {
	Host      string `env:"SMTP_HOST, default=localhost"`
	Port      int    `env:"SMTP_PORT, default=587"`
	Username  string `env:"SMTP_USERNAME"`
	Password  string `env:"SMTP_PASSWORD"`
	From      string `env:"MAIL_FROM, default=no-reply@ananses3m.shop"`
	Workers   int    `env:"MAIL_WORKERS,    default=2"`
	QueueSize int    `env:"MAIL_QUEUE_SIZE, default=256"`
}

type MediaConfig struct {
	Provider     string `env:"MEDIA_PROVIDER, default=cloudinary"`
	UploadPreset string `env:"UPLOAD_PRESET,  default=store_uploads"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	S3Region        string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type MomoConfig struct {
	BaseURL           string `env:"MOMO_BASE_URL,           default=https://sandbox.momodeveloper.mtn.com"`
	SubscriptionKey   string `env:"MOMO_SUBSCRIPTION_KEY"`
	APIUser           string `env:"MOMO_API_USER"`
	APIKey            string `env:"MOMO_API_KEY"`
	TargetEnvironment string `env:"MOMO_TARGET_ENVIRONMENT, default=sandbox"`
	CallbackURL       string `env:"MOMO_CALLBACK_URL"`
	Currency          string `env:"MOMO_CURRENCY,           default=EUR"`
	PayerMessage      string `env:"MOMO_PAYER_MESSAGE,      default=Ananses3m Wear order"`
}

type PayPalConfig struct {
	ClientID string `env:"PAYPAL_CLIENT_ID"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.ResetTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}

	switch c.Media.Provider {
	case "cloudinary":
	case "s3":
		if c.Media.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when MEDIA_PROVIDER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_PROVIDER %q is not one of cloudinary, s3", c.Media.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

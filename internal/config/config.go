package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ConsistencyBestEffort    = "best_effort"
	ConsistencyTransactional = "transactional"

	CouponPolicyLenient = "lenient"
	CouponPolicyStrict  = "strict"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server   Server   `envPrefix:"SERVER_"`
	Database Database `envPrefix:"DB_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Cookie   Cookie   `envPrefix:"COOKIE_"`
	SMTP     SMTP     `envPrefix:"SMTP_"`
	Storage  Storage  `envPrefix:"MINIO_"`
	Search   Search   `envPrefix:"ES_"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	ConsistencyMode string `env:"CONSISTENCY_MODE" envDefault:"best_effort"`
	CouponPolicy    string `env:"COUPON_POLICY"    envDefault:"lenient"`

	// Base URL used to build verification and reset links in emails.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// Requests per second per client IP on credential endpoints; 0 turns
	// the limiter off.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
}

type Server struct {
	Addr              string        `env:"ADDR"                envDefault:":8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT"        envDefault:"10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"3s"`
	CORSOrigins       []string      `env:"CORS_ORIGINS"        envSeparator:"," envDefault:"*"`
}

type Database struct {
	DSN         string `env:"DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
}

type JWT struct {
	Secret     string        `env:"SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TTL"  envDefault:"168h"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"72h"`
}

type Cookie struct {
	Secure bool `env:"SECURE" envDefault:"true"`
	// Lifetime of the refreshToken cookie in the browser.
	MaxAge time.Duration `env:"MAX_AGE" envDefault:"72h"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"     envDefault:"no-reply@shop.local"`
}

type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"shop-images"`
	UseSSL    bool   `env:"USE_SSL"     envDefault:"false"`
	PublicURL string `env:"PUBLIC_URL"`
}

type Search struct {
	URL      string `env:"URL"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Index    string `env:"INDEX" envDefault:"products"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("config: .env not found, using process environment")
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ConsistencyMode = strings.ToLower(strings.TrimSpace(cfg.ConsistencyMode))
	cfg.CouponPolicy = strings.ToLower(strings.TrimSpace(cfg.CouponPolicy))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("missing required env DB_DSN"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	switch c.ConsistencyMode {
	case ConsistencyBestEffort, ConsistencyTransactional:
	default:
		errs = append(errs, fmt.Errorf("CONSISTENCY_MODE: unknown value %q", c.ConsistencyMode))
	}
	switch c.CouponPolicy {
	case CouponPolicyLenient, CouponPolicyStrict:
	default:
		errs = append(errs, fmt.Errorf("COUPON_POLICY: unknown value %q", c.CouponPolicy))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT cannot be negative"))
	}
	return errors.Join(errs...)
}

// ExposeErrors reports whether error details may be sent to clients.
func (c *Config) ExposeErrors() bool {
	return c.AppEnv != "production"
}

func (c *Config) MailEnabled() bool    { return c.SMTP.Host != "" }
func (c *Config) StorageEnabled() bool { return c.Storage.Endpoint != "" }
func (c *Config) SearchEnabled() bool  { return c.Search.URL != "" }

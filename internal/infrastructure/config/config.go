package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payments PaymentsConfig
	Storage  StorageConfig
	Vendor   VendorConfig
	Render   RenderConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// DatabaseConfig holds database connection settings.
// Driver selects postgres for deployments and sqlite for local runs.
type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path (":memory:" for tests)
}

// RedisConfig holds Redis connection settings for the shared
// idempotency store. Optional: when unset the in-process store is used.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PaymentsConfig holds Stripe checkout and webhook settings
type PaymentsConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	BookPriceUSD  int64 // cents
	ShippingUSD   int64 // cents
}

// IsConfigured reports whether the payment integration can be used
func (c PaymentsConfig) IsConfigured() bool {
	return c.SecretKey != "" && c.WebhookSecret != ""
}

// StorageConfig holds S3-compatible object storage settings for book
// data and rendered artifacts
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// IsConfigured reports whether the storage integration can be used
func (c StorageConfig) IsConfigured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// VendorConfig holds print vendor API settings
type VendorConfig struct {
	APIBase    string
	AuthURL    string
	ClientKey  string
	Secret     string
	ProductKey string
}

// IsConfigured reports whether the print vendor integration can be used
func (c VendorConfig) IsConfigured() bool {
	return c.ClientKey != "" && c.Secret != ""
}

// RenderConfig holds headless-browser rendering settings
type RenderConfig struct {
	// TemplateBaseURL is where the static book templates are served,
	// e.g. https://teamseason.app
	TemplateBaseURL string
	Timeout         time.Duration
	SettleDelay     time.Duration
	RemoteURL       string // optional remote Chrome instance
	NoSandbox       bool
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with TEAMSEASON_ prefix (e.g. TEAMSEASON_VENDOR_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("TEAMSEASON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("database.driver"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
			Path:     v.GetString("database.path"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Payments: PaymentsConfig{
			SecretKey:     v.GetString("payments.secret_key"),
			WebhookSecret: v.GetString("payments.webhook_secret"),
			SuccessURL:    v.GetString("payments.success_url"),
			CancelURL:     v.GetString("payments.cancel_url"),
			BookPriceUSD:  v.GetInt64("payments.book_price_usd"),
			ShippingUSD:   v.GetInt64("payments.shipping_usd"),
		},
		Storage: StorageConfig{
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Vendor: VendorConfig{
			APIBase:    v.GetString("vendor.api_base"),
			AuthURL:    v.GetString("vendor.auth_url"),
			ClientKey:  v.GetString("vendor.client_key"),
			Secret:     v.GetString("vendor.secret"),
			ProductKey: v.GetString("vendor.product_key"),
		},
		Render: RenderConfig{
			TemplateBaseURL: v.GetString("render.template_base_url"),
			Timeout:         v.GetDuration("render.timeout"),
			SettleDelay:     v.GetDuration("render.settle_delay"),
			RemoteURL:       v.GetString("render.remote_url"),
			NoSandbox:       v.GetBool("render.no_sandbox"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "teamseason-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "teamseason"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "teamseason.db"
	}
	if cfg.Payments.SuccessURL == "" {
		cfg.Payments.SuccessURL = "https://teamseason.app/app?order=success&session_id={CHECKOUT_SESSION_ID}"
	}
	if cfg.Payments.CancelURL == "" {
		cfg.Payments.CancelURL = "https://teamseason.app/app?order=cancelled"
	}
	if cfg.Payments.BookPriceUSD == 0 {
		cfg.Payments.BookPriceUSD = 3900 // $39.00
	}
	if cfg.Payments.ShippingUSD == 0 {
		cfg.Payments.ShippingUSD = 599 // $5.99
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-west-2"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 7 * 24 * time.Hour
	}
	if cfg.Vendor.APIBase == "" {
		cfg.Vendor.APIBase = "https://api.lulu.com"
	}
	if cfg.Vendor.AuthURL == "" {
		cfg.Vendor.AuthURL = "https://api.lulu.com/auth/realms/glasstree/protocol/openid-connect/token"
	}
	if cfg.Vendor.ProductKey == "" {
		cfg.Vendor.ProductKey = "square-hardcover-7.75"
	}
	if cfg.Render.TemplateBaseURL == "" {
		cfg.Render.TemplateBaseURL = "https://teamseason.app"
	}
	if cfg.Render.Timeout == 0 {
		cfg.Render.Timeout = 20 * time.Second
	}
	if cfg.Render.SettleDelay == 0 {
		cfg.Render.SettleDelay = time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.App.Env == "production" {
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Log.Format == "console" {
			c.Log.Format = "json"
		}
		// A secret key without its webhook secret means completed
		// payments could never be verified. Fail fast instead.
		if c.Payments.SecretKey != "" && c.Payments.WebhookSecret == "" {
			return fmt.Errorf("payments.webhook_secret is required when payments.secret_key is set")
		}
	}

	if c.Payments.BookPriceUSD < 0 || c.Payments.ShippingUSD < 0 {
		return fmt.Errorf("payment amounts cannot be negative")
	}

	return nil
}

// DSN returns the postgres connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

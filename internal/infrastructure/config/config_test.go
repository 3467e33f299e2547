package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "teamseason-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 20*time.Second, cfg.Render.Timeout)
	assert.Equal(t, time.Second, cfg.Render.SettleDelay)
	assert.Equal(t, int64(3900), cfg.Payments.BookPriceUSD)
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.PresignExpiration)
	assert.Equal(t, "https://api.lulu.com", cfg.Vendor.APIBase)
	assert.Equal(t, "square-hardcover-7.75", cfg.Vendor.ProductKey)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TEAMSEASON_APP_PORT", "9090")
	t.Setenv("TEAMSEASON_VENDOR_CLIENT_KEY", "key")
	t.Setenv("TEAMSEASON_VENDOR_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.Vendor.IsConfigured())
}

func TestIsConfiguredPredicates(t *testing.T) {
	assert.False(t, PaymentsConfig{}.IsConfigured())
	assert.False(t, PaymentsConfig{SecretKey: "sk"}.IsConfigured())
	assert.True(t, PaymentsConfig{SecretKey: "sk", WebhookSecret: "whsec"}.IsConfigured())

	assert.False(t, StorageConfig{Bucket: "b"}.IsConfigured())
	assert.True(t, StorageConfig{Bucket: "b", AccessKey: "a", SecretKey: "s"}.IsConfigured())

	assert.False(t, VendorConfig{ClientKey: "k"}.IsConfigured())
	assert.True(t, VendorConfig{ClientKey: "k", Secret: "s"}.IsConfigured())
}

func TestValidate_RejectsBadDriver(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.validate())
}

func TestValidate_ProductionRequiresWebhookSecret(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Payments.SecretKey = "sk_live_x"
	assert.Error(t, cfg.validate())

	cfg.Payments.WebhookSecret = "whsec_x"
	assert.NoError(t, cfg.validate())
}

func TestDSN(t *testing.T) {
	d := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "teamseason", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=teamseason sslmode=require", d.DSN())
}

// Package config loads deployment configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

var (
	ErrDemoModeInProduction = errors.New("config: insecure demo mode must not be enabled in production")
	ErrMissingSecret        = errors.New("config: gateway secret is required; set ZUP_INSECURE_DEMO_MODE=true only for demo deployments")
)

type Config struct {
	HTTPPort    string
	Environment string

	LedgerBackend string
	MongoURI      string
	MongoDB       string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	CommissionBps int64
	Currency      string

	// GatewaySecret signs payment confirmations. Never logged, never served.
	GatewaySecret    string
	InsecureDemoMode bool

	PartnerAPIKey string

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// Load reads configuration from ZUP_-prefixed environment variables and
// validates mode combinations up front: a production deployment refuses to
// start without a gateway secret or with demo mode enabled.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ZUP")
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("LEDGER_BACKEND", BackendMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "zupdb")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("KAFKA_BROKERS", []string{})
	v.SetDefault("COMMISSION_BPS", 500)
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("GATEWAY_SECRET", "")
	v.SetDefault("INSECURE_DEMO_MODE", false)
	v.SetDefault("PARTNER_API_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg := &Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LedgerBackend:      v.GetString("LEDGER_BACKEND"),
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDB:            v.GetString("MONGO_DB"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		KafkaBrokers:       v.GetStringSlice("KAFKA_BROKERS"),
		CommissionBps:      v.GetInt64("COMMISSION_BPS"),
		Currency:           v.GetString("CURRENCY"),
		GatewaySecret:      v.GetString("GATEWAY_SECRET"),
		InsecureDemoMode:   v.GetBool("INSECURE_DEMO_MODE"),
		PartnerAPIKey:      v.GetString("PARTNER_API_KEY"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Environment == EnvProduction {
		if c.InsecureDemoMode {
			return ErrDemoModeInProduction
		}
		if c.GatewaySecret == "" {
			return ErrMissingSecret
		}
	}
	if !c.InsecureDemoMode && c.GatewaySecret == "" {
		return ErrMissingSecret
	}
	switch c.LedgerBackend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: unknown ledger backend %q", c.LedgerBackend)
	}
	return nil
}

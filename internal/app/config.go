package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

// Config holds the complete application configuration, loadable from
// environment variables (FOODIES_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address" yaml:"addr"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (FOODIES_DATABASE_URL or DATABASE_URL)" flag:"database-url" yaml:"database_url"`
	ImageBaseURL string `default:"" usage:"Base URL for menu item images (e.g. https://cdn.example.com)" flag:"image-base-url" yaml:"image_base_url"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	CORS         CORSConfig      `yaml:"cors"`
	Graceful     GracefulConfig  `yaml:"graceful"`

	// Pricing is the ordered rule sequence applied to every order. When no
	// rules are configured, the storefront defaults apply. Execution order
	// is exactly the configured order.
	Pricing []pricing.RuleConfig `yaml:"pricing"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window" yaml:"max"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration" yaml:"window"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins" yaml:"origins"`
	MaxAge  int      `default:"86400" usage:"Preflight cache duration in seconds" flag:"cors-max-age" yaml:"max_age"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay" yaml:"readiness_delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout" yaml:"shutdown_timeout"`
}

// DefaultPricingRules returns the storefront's built-in rule sequence:
// an order-level threshold discount, the fries multibuy, and GST, applied
// in that order.
func DefaultPricingRules() []pricing.RuleConfig {
	return []pricing.RuleConfig{
		{Kind: "threshold_discount", Label: "10% OFF on 500+", Threshold: "500", Percent: "0.10"},
		{Kind: "buy_x_get_y", Label: "Buy 2 Get 1 Free (Fries)", ItemID: "S1", X: 2, Y: 1},
		{Kind: "tax", Label: "GST @ 5%", Rate: "0.05"},
	}
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FOODIES",
		Files:     []string{"config.yaml", "/etc/foodies/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set FOODIES_DATABASE_URL or DATABASE_URL")
	}
	if len(cfg.Pricing) == 0 {
		cfg.Pricing = DefaultPricingRules()
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's FOODIES_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

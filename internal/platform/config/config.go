package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string
	HTTPPort      string
	PostgresDSN   string
	RunMigrations bool
	AdminEmail    string

	StripeAPIKey        string
	StripeWebhookSecret string
	StripeAPIBaseURL    string
	StripeTimeout       time.Duration

	CheckoutRatePerMinute float64
	CheckoutRateBurst     int
	WebhookRatePerSecond  float64
	WebhookRateBurst      int

	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	UploadURLTTL time.Duration

	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For is
	// honoured when resolving the client address. Empty means RemoteAddr only.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

// Load reads the environment after applying an optional dotenv file. Values
// already present in the environment win over the file.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := Config{
		ServiceName:   envString("SERVICE_NAME", "funded"),
		HTTPPort:      envString("HTTP_PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RunMigrations: envBool("RUN_MIGRATIONS", true),
		AdminEmail:    envString("ADMIN_EMAIL", "admin@funded.com"),

		StripeAPIKey:        strings.TrimSpace(os.Getenv("STRIPE_API_KEY")),
		StripeWebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		StripeAPIBaseURL:    envString("STRIPE_API_BASE_URL", "https://api.stripe.com"),
		StripeTimeout:       envDuration("STRIPE_TIMEOUT", 10*time.Second),

		CheckoutRatePerMinute: envFloat("CHECKOUT_RATE_PER_MINUTE", 10),
		CheckoutRateBurst:     envInt("CHECKOUT_RATE_BURST", 5),
		WebhookRatePerSecond:  envFloat("WEBHOOK_RATE_PER_SECOND", 50),
		WebhookRateBurst:      envInt("WEBHOOK_RATE_BURST", 100),

		S3Bucket:     strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:     envString("S3_REGION", "us-east-1"),
		S3Endpoint:   strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		UploadURLTTL: envDuration("UPLOAD_URL_TTL", 15*time.Minute),

		TrustedProxies: envList("TRUSTED_PROXIES"),

		LogLevel:  envString("LOG_LEVEL", "info"),
		LogFormat: envString("LOG_FORMAT", "json"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPPort) == "" {
		return errors.New("HTTP_PORT must not be empty")
	}
	if c.CheckoutRatePerMinute <= 0 || c.CheckoutRateBurst <= 0 {
		return errors.New("checkout rate limit must be positive")
	}
	if c.WebhookRatePerSecond <= 0 || c.WebhookRateBurst <= 0 {
		return errors.New("webhook rate limit must be positive")
	}
	if c.StripeTimeout <= 0 {
		return errors.New("STRIPE_TIMEOUT must be positive")
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid prefix %q: %w", value, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q: %w", value, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envList(name string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(part); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(name)), 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return fallback
	}
	return value
}

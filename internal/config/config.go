package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// DatasetConfig selects where the company directory is read from at startup.
type DatasetConfig struct {
	Path        string
	DatabaseURL string
	Table       string
}

// TidyConfig configures the AI complaint tidying proxy. An empty APIKey
// disables the feature.
type TidyConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// Enabled reports whether tidying requests can be served.
func (c TidyConfig) Enabled() bool {
	return c.APIKey != ""
}

// LogConfig controls the global zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port            string
	Dataset         DatasetConfig
	RateLimitLookup RateLimitConfig
	RateLimitTidy   RateLimitConfig
	Tidy            TidyConfig
	Log             LogConfig

	// TrustedProxies are the reverse proxies whose X-Forwarded-For header is
	// believed. Empty means the socket peer address is the client.
	TrustedProxies []*net.IPNet
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Dataset: DatasetConfig{
			Path:        os.Getenv("DATASET_PATH"),
			DatabaseURL: os.Getenv("DATASET_DATABASE_URL"),
			Table:       getEnv("DATASET_TABLE", "companies"),
		},
		Tidy: TidyConfig{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   getEnv("TIDY_MODEL", "claude-haiku-4-5-20251001"),
			Timeout: parseDuration(getEnv("TIDY_TIMEOUT", "30s"), 30*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	maxTokens, err := strconv.ParseInt(getEnv("TIDY_MAX_TOKENS", "1024"), 10, 64)
	if err != nil || maxTokens <= 0 {
		return nil, fmt.Errorf("invalid TIDY_MAX_TOKENS value: %q", os.Getenv("TIDY_MAX_TOKENS"))
	}
	cfg.Tidy.MaxTokens = maxTokens

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_LOOKUP", "60/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOOKUP value: %w", err)
	}
	cfg.RateLimitLookup = rl

	rl, err = parseRateLimit(getEnv("RATE_LIMIT_TIDY", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TIDY value: %w", err)
	}
	cfg.RateLimitTidy = rl

	proxies, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES value: %w", err)
	}
	cfg.TrustedProxies = proxies

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL value: %w", err)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT value: %q", cfg.Log.Format)
	}

	return cfg, nil
}

// InitLogger builds the global zap logger. It returns the logger so callers
// can flush it on exit.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

// parseTrustedProxies reads a comma separated list of CIDRs or single IPs.
func parseTrustedProxies(value string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				return nil, fmt.Errorf("not an IP or CIDR: %q", item)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(item)
		if err != nil {
			return nil, fmt.Errorf("not an IP or CIDR: %q", item)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

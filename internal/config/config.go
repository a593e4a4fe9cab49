package config

import (
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/scorelens/scoreboard-gateway/pkg/config"
)

// Config holds the core runtime configuration for a service instance.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "scoreboard-gateway"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // service HTTP port
	MetricsPort int    // prometheus scrape port

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// Secure store. Backend selects "memory", "redis" or "aws"; the redis
	// backend encrypts entries with MasterKey before writing.
	SecureStoreBackend string
	RedisAddr          string // e.g. localhost:6379
	RedisDB            int
	RedisPass          string
	MasterKey          string // base64, 32 bytes decoded
	AWSRegion          string // for AWS SDK client

	// Events. An empty NATSURL disables publishing.
	NATSURL         string // e.g. nats://localhost:4222
	OutboundSubject string // NATS subject for analysis events

	// Upstream vision endpoint.
	AnalysisEndpoint string
	AnalysisModel    string
	AnalysisTimeout  time.Duration

	RateMaxCalls int
	RateWindow   time.Duration
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:        pkgconfig.GetEnv("SERVICE_NAME", "scoreboard-gateway"),
		Env:                pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:           pkgconfig.GetEnv("LOG_LEVEL", "info"),
		Port:               pkgconfig.GetEnvInt("PORT", 9040),
		MetricsPort:        pkgconfig.GetEnvInt("METRICS_PORT", 9041),
		HTTPReadTimeout:    pkgconfig.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:   pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:    pkgconfig.GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:      pkgconfig.GetEnvInt("HTTP_BODY_LIMIT", 8*1024*1024),
		SecureStoreBackend: pkgconfig.GetEnv("SECURE_STORE_BACKEND", "memory"),
		RedisAddr:          pkgconfig.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:          pkgconfig.GetEnv("REDIS_PASS", ""),
		MasterKey:          pkgconfig.GetEnv("MASTER_KEY", ""),
		AWSRegion:          pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		NATSURL:            pkgconfig.GetEnv("NATS_URL", ""),
		OutboundSubject:    pkgconfig.GetEnv("OUTBOUND_SUBJECT", "evt.scoreboard.analysis.v1"),
		AnalysisEndpoint:   pkgconfig.GetEnv("ANALYSIS_ENDPOINT", "https://api.anthropic.com/v1/scoreboard/analyze"),
		AnalysisModel:      pkgconfig.GetEnv("ANALYSIS_MODEL", "scoreboard-vision-1"),
		AnalysisTimeout:    pkgconfig.GetEnvDuration("ANALYSIS_TIMEOUT", 30*time.Second),
		RateMaxCalls:       pkgconfig.GetEnvInt("RATE_MAX_CALLS", 10),
		RateWindow:         pkgconfig.GetEnvDuration("RATE_WINDOW", time.Minute),
	}
}

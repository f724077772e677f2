package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Session store
	SessionBackend  string // "memory" or "redis"
	SessionMaxAge   time.Duration
	SessionSweep    time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool

	// Trainer directory (Postgres)
	DatabaseURL string

	// Slot calendar
	SlotWindowDays int
	TimeZone       string

	// OTP verification
	OTPTTL            time.Duration
	OTPMaxAttempts    int
	OTPResendCooldown time.Duration
	OTPBypassEnabled  bool
	OTPBypassCode     string

	// Email delivery
	EmailProvider     string // "sendgrid", "ses" or "stub"
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	EmailRetryMax     int
	EmailQueueSize    int

	// AWS (SES email)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Google Calendar sync
	GoogleCredentialsFile string
	GoogleCalendarID      string
	CalendarSyncEnabled   bool

	CORSAllowedOrigins []string

	// Webhook rate limiting. Zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		SessionMaxAge:  getEnvAsDuration("SESSION_MAX_AGE", 12*time.Hour),
		SessionSweep:   getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SlotWindowDays: getEnvAsInt("SLOT_WINDOW_DAYS", 5),
		TimeZone:       getEnv("TIME_ZONE", "Asia/Kolkata"),

		OTPTTL:            getEnvAsDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts:    getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
		OTPResendCooldown: getEnvAsDuration("OTP_RESEND_COOLDOWN", 30*time.Second),
		OTPBypassEnabled:  getEnvAsBool("OTP_BYPASS_ENABLED", false),
		OTPBypassCode:     getEnv("OTP_BYPASS_CODE", "12345"),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@pulsefit.gym"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "PulseFit Gym"),
		EmailRetryMax:     getEnvAsInt("EMAIL_RETRY_MAX_ATTEMPTS", 3),
		EmailQueueSize:    getEnvAsInt("EMAIL_QUEUE_SIZE", 256),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		CalendarSyncEnabled:   getEnvAsBool("CALENDAR_SYNC_ENABLED", false),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Database configuration
	DBDriver        string
	SQLitePath      string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPass          string
	DBName          string
	DBMaxIdleConns  int
	DBMaxOpenConns  int
	DBConnLifetime  time.Duration
	DBSlowThreshold time.Duration

	// Redis configuration (token revocation)
	RedisURL string

	// Token configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Mail configuration
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// HTTP
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Ticketing
	EnforceEventCapacity bool

	// Monitoring
	EnableMetrics bool
}

// LoadConfig reads the configuration from the environment
func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Database
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		SQLitePath:      getEnv("SQLITE_PATH", "boleteria.db"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", ""),
		DBPass:          getEnv("DB_PASS", ""),
		DBName:          getEnv("DB_NAME", "boleteria"),
		DBMaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		DBConnLifetime:  getEnvAsDuration("DB_CONN_LIFETIME", "1h"),
		DBSlowThreshold: getEnvAsDuration("DB_SLOW_THRESHOLD", "500ms"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Tokens
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", "1h"),

		// Mail
		SMTPHost: getEnv("SMTP_HOST", "localhost"),
		SMTPPort: getEnvAsInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "boletas@tuboleteria.com"),

		// HTTP
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "https://boleteria-front.vercel.app"),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),

		// Ticketing
		EnforceEventCapacity: getEnvAsBool("ENFORCE_EVENT_CAPACITY", false),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// IsProduction reports whether the service runs with production defaults
// (release gin mode, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

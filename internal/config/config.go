package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DBDriver     string
	DatabaseURL  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DBMaxRetries int
	LogSQL       bool

	JWTSecret     string
	JWTExpiration time.Duration
	CookieSecure  bool

	PasswordResetTTL time.Duration
	PasswordResetURL string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	EmailFrom        string

	CORSAllowedOrigins []string
	AuthRateLimit      float64
	AuthRateBurst      int

	UploadDir      string
	UploadBaseURL  string
	UploadMaxBytes int64

	RealtimeDriver string
	RealtimePrefix string
	NATSURL        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

func LoadConfig() *Config {
	// Try to load .env file but don't fail if it doesn't exist
	_ = godotenv.Load()

	expiration, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "24h"))
	if err != nil {
		log.Fatal("Invalid JWT_EXPIRATION format. Use format like '24h'")
	}

	resetTTL, err := time.ParseDuration(getEnv("PASSWORD_RESET_TTL", "1h"))
	if err != nil {
		log.Fatal("Invalid PASSWORD_RESET_TTL format. Use format like '1h'")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),

		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "devconnect"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBMaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		LogSQL:       getEnvBool("LOG_SQL", false),

		JWTSecret:     getEnv("JWT_SECRET", "default-secret"),
		JWTExpiration: expiration,
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		PasswordResetTTL: resetTTL,
		PasswordResetURL: getEnv("PASSWORD_RESET_URL", "http://localhost:3000/reset-password"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFrom:        getEnv("EMAIL_FROM", "no-reply@devconnect.local"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AuthRateLimit:      getEnvFloat("AUTH_RATE_LIMIT", 0.5),
		AuthRateBurst:      getEnvInt("AUTH_RATE_BURST", 10),

		UploadDir:      getEnv("UPLOAD_DIR", "./static/uploads"),
		UploadBaseURL:  strings.TrimRight(getEnv("UPLOAD_BASE_URL", "/uploads"), "/"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10*1024*1024)),

		RealtimeDriver: getEnv("REALTIME_DRIVER", "memory"),
		RealtimePrefix: getEnv("REALTIME_PREFIX", "devconnect"),
		NATSURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
	}
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s&timezone=UTC", url.QueryEscape(c.DBSSLMode)),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid %s: %q is not an integer", key, value)
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %q is not a number", key, value)
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Fatalf("Invalid %s: %q is not a boolean", key, value)
	}
	return b
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

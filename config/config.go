package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RabbitURL string

	JWTSecret      string
	JWTExpiryHours int
	GoogleClientID string
	AdminEmail     string

	ResendAPIKey string
	MailFrom     string
	EmailTest    string

	Location     *time.Location
	ScheduleFile string
	AllowRebuild bool
	CalendarCron string
	CORSOrigins  []string
	RateLimitRPS float64
}

// Load reads the process environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Unset APP_ENV means production: the dev secret and rebuild are opt-in.
	env := getEnv("APP_ENV", "production")
	dev := env == "development" || env == "test"

	expiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	allowRebuild, err := strconv.ParseBool(getEnv("CALENDAR_ALLOW_REBUILD", strconv.FormatBool(dev)))
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_ALLOW_REBUILD: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TZ_NAME", "America/Argentina/Buenos_Aires"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		if !dev {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV is %q", env)
		}
		secret = "dev-secret-change-me"
	}

	return &Config{
		Env:            env,
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "barberia"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		RabbitURL:      getEnv("RABBITMQ_URL", ""),
		JWTSecret:      secret,
		JWTExpiryHours: expiry,
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		AdminEmail:     strings.ToLower(getEnv("ADMIN_EMAIL", "")),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "Barberia <onboarding@resend.dev>"),
		EmailTest:      getEnv("EMAIL_TEST", ""),
		Location:       loc,
		ScheduleFile:   getEnv("SCHEDULE_FILE", ""),
		AllowRebuild:   allowRebuild,
		CalendarCron:   getEnv("CALENDAR_CRON", "0 3 * * *"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		RateLimitRPS:   rps,
	}, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

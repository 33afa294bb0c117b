package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Points policy. Reputation rewards are policy values, not code:
	// deployments tune them without a rebuild.
	PointsReportSubmitted int
	PointsReportVerified  int
	PointsReportRejected  int

	// Validation sweep: reports still pending after the threshold get a
	// validation_needed alert fanned out to moderators.
	ValidationSweepSchedule  string
	ValidationSweepThreshold time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "mangrovewatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		PointsReportSubmitted: parseInt(getEnv("POINTS_REPORT_SUBMITTED", "10")),
		PointsReportVerified:  parseInt(getEnv("POINTS_REPORT_VERIFIED", "25")),
		PointsReportRejected:  parseInt(getEnv("POINTS_REPORT_REJECTED", "0")),

		ValidationSweepSchedule:  getEnv("VALIDATION_SWEEP_SCHEDULE", "@hourly"),
		ValidationSweepThreshold: parseDuration(getEnv("VALIDATION_SWEEP_THRESHOLD", "24h")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

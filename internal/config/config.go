package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret        string
	RefreshJWTSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	// Secret required by the superadmin signup endpoint. Empty disables it.
	SuperAdminSignupKey string

	// Initial superadmin seeded on first boot.
	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string

	// Email. Empty SendGrid key falls back to the console mailer.
	SendGridKey string
	MailFrom    string
	MailSender  string

	// Object storage. Empty B2 credentials fall back to local disk.
	B2AccountID string
	B2AppKey    string
	B2Bucket    string
	UploadDir   string
	UploadBase  string

	FrontendURL string
}

func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "lms_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:        getenv("JWT_SECRET", "supersecret_change_me"),
		RefreshJWTSecret: getenv("REFRESH_JWT_SECRET", getenv("JWT_SECRET", "supersecret_change_me")),
		AccessTokenTTL:   minutes("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTL:  days("REFRESH_TOKEN_TTL_DAYS", 30),

		SuperAdminSignupKey: getenv("SUPERADMIN_SIGNUP_KEY", ""),
		SuperAdminEmail:     getenv("SUPERADMIN_EMAIL", "superadmin@example.com"),
		SuperAdminPassword:  getenv("SUPERADMIN_PASSWORD", "superadmin123"),
		SuperAdminName:      getenv("SUPERADMIN_NAME", "Super Admin"),

		SendGridKey: getenv("SENDGRID_API_KEY", ""),
		MailFrom:    getenv("MAIL_FROM", "noreply@lms.local"),
		MailSender:  getenv("MAIL_SENDER_NAME", "LMS"),

		B2AccountID: getenv("B2_ACCOUNT_ID", ""),
		B2AppKey:    getenv("B2_APP_KEY", ""),
		B2Bucket:    getenv("B2_BUCKET", "lms-submissions"),
		UploadDir:   getenv("UPLOAD_DIR", "uploads"),
		UploadBase:  getenv("UPLOAD_BASE_URL", "/uploads"),

		FrontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func minutes(key string, fallback int) time.Duration {
	return time.Duration(getint(key, fallback)) * time.Minute
}

func days(key string, fallback int) time.Duration {
	return time.Duration(getint(key, fallback)) * 24 * time.Hour
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	OAuth    OAuthConfig
	Uploads  UploadConfig
	Exports  ExportConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs the server-side session store and its cookie.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// OAuthConfig carries the external identity provider credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	StateTTL     time.Duration
}

// UploadConfig controls certificate upload validation and placement.
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// ExportConfig controls submission sheet exports and the legacy CSV ledger.
type ExportConfig struct {
	Dir             string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	LedgerFile      string
	Workers         int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SECRET_KEY"),
		CookieName: v.GetString("SESSION_COOKIE_NAME"),
		TTL:        parseDuration(v.GetString("SESSION_TTL"), time.Hour),
		Secure:     v.GetBool("SESSION_COOKIE_SECURE"),
	}

	cfg.OAuth = OAuthConfig{
		ClientID:     v.GetString("OAUTH_CLIENT_ID"),
		ClientSecret: v.GetString("OAUTH_CLIENT_SECRET"),
		RedirectURL:  v.GetString("OAUTH_REDIRECT_URL"),
		StateTTL:     parseDuration(v.GetString("OAUTH_STATE_TTL"), 10*time.Minute),
	}

	maxUploadSize := v.GetInt64("UPLOAD_MAX_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{
		Dir:          v.GetString("UPLOAD_FOLDER"),
		MaxSizeBytes: maxUploadSize,
	}

	cfg.Exports = ExportConfig{
		Dir:             v.GetString("EXPORTS_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		LedgerFile:      v.GetString("BLOOD_DONATION_LEDGER"),
		Workers:         v.GetInt("EXPORTS_WORKERS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sodeca")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SECRET_KEY", "dev_secret")
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("OAUTH_CLIENT_ID", "")
	v.SetDefault("OAUTH_CLIENT_SECRET", "")
	v.SetDefault("OAUTH_REDIRECT_URL", "http://localhost:8080/auth/google/callback")
	v.SetDefault("OAUTH_STATE_TTL", "10m")

	v.SetDefault("UPLOAD_FOLDER", "./uploads")
	v.SetDefault("UPLOAD_MAX_SIZE", 5*1024*1024)

	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("BLOOD_DONATION_LEDGER", "blood_donation.csv")
	v.SetDefault("EXPORTS_WORKERS", 1)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

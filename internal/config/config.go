package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	S3         S3Config
	Moderation ModerationConfig
	Outbox     OutboxConfig
	Services   ServicesConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type S3Config struct {
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	PublicBase string
	PresignTTL time.Duration
}

type ModerationConfig struct {
	// LockTimeout bounds the wait for the owner advisory lock.
	LockTimeout time.Duration
	// EscalationAge is how long an unassigned pending item may wait before
	// the sweep promotes it to high priority.
	EscalationAge time.Duration
	// EscalationInterval is the sweep period.
	EscalationInterval time.Duration
	// CodeMaxAttempts bounds product code generation retries.
	CodeMaxAttempts int
}

type OutboxConfig struct {
	BatchSize  int
	Interval   time.Duration
	MaxRetries int
}

type ServicesConfig struct {
	CatalogBaseURL      string
	SellerBaseURL       string
	NotificationBaseURL string
	ClientTimeout       time.Duration
}

// Load loads configuration from environment variables, reading a local .env
// file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "vendora"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		S3: S3Config{
			Region:     getEnv("S3_REGION", ""),
			Bucket:     getEnv("S3_BUCKET", ""),
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
			Endpoint:   getEnv("S3_ENDPOINT", ""),
			PublicBase: getEnv("S3_PUBLIC_BASE", ""),
			PresignTTL: getEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
		Moderation: ModerationConfig{
			LockTimeout:        getEnvAsDuration("MODERATION_LOCK_TIMEOUT", 5*time.Second),
			EscalationAge:      getEnvAsDuration("MODERATION_ESCALATION_AGE", 24*time.Hour),
			EscalationInterval: getEnvAsDuration("MODERATION_ESCALATION_INTERVAL", 10*time.Minute),
			CodeMaxAttempts:    getEnvAsInt("MODERATION_CODE_MAX_ATTEMPTS", 5),
		},
		Outbox: OutboxConfig{
			BatchSize:  getEnvAsInt("OUTBOX_BATCH_SIZE", 100),
			Interval:   getEnvAsDuration("OUTBOX_INTERVAL", 2*time.Second),
			MaxRetries: getEnvAsInt("OUTBOX_MAX_RETRIES", 5),
		},
		Services: ServicesConfig{
			CatalogBaseURL:      getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
			SellerBaseURL:       getEnv("SELLER_SERVICE_URL", "http://localhost:8082"),
			NotificationBaseURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8083"),
			ClientTimeout:       getEnvAsDuration("SERVICE_CLIENT_TIMEOUT", 3*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

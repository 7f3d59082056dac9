package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Verification VerificationConfig
	Security     SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// AutoMigrate creates or updates tables from the gorm models on startup
	AutoMigrate  bool
	MaxOpenConns int
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig selects and configures the document store
type StorageConfig struct {
	Driver        string // "local" or "s3"
	Bucket        string
	LocalDir      string
	PublicBaseURL string
	S3Endpoint    string
	S3Region      string
	S3PathStyle   bool
}

// VerificationConfig holds verification workflow tuning
type VerificationConfig struct {
	UploadMaxBytes         int64
	SweepInterval          time.Duration
	PendingRegistrationTTL time.Duration
	EventKeepAlive         time.Duration
}

// SecurityConfig holds encryption keys
type SecurityConfig struct {
	// PendingRegistrationKey seals pending registration payloads at rest (32 bytes hex).
	PendingRegistrationKey string
}

// DefaultLocalPublicBaseURL is where the server exposes locally stored documents
const DefaultLocalPublicBaseURL = "http://localhost:8080/files"

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "tutorlink"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			Bucket:        getEnv("STORAGE_BUCKET", "verification-documents"),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "./data/uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", DefaultLocalPublicBaseURL),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3PathStyle:   getEnvAsBool("S3_USE_PATH_STYLE", false),
		},
		Verification: VerificationConfig{
			UploadMaxBytes:         int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			SweepInterval:          getEnvAsDuration("REVERIFICATION_SWEEP_INTERVAL", time.Hour),
			PendingRegistrationTTL: getEnvAsDuration("PENDING_REGISTRATION_TTL", 24*time.Hour),
			EventKeepAlive:         getEnvAsDuration("EVENT_KEEPALIVE_INTERVAL", 25*time.Second),
		},
		Security: SecurityConfig{
			PendingRegistrationKey: getEnv("PENDING_REGISTRATION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

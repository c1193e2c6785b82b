package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Locales   LocalesConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Archive   ArchiveConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type LocalesConfig struct {
	// Dir is the root of the generated locale files
	// (locales/<language>/<namespace>.json).
	Dir string
	// SupportedLanguages is the closed set of language codes accepted on
	// create and import.
	SupportedLanguages []string
}

type UploadConfig struct {
	MaxCSVSize int64
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type CORSConfig struct {
	AllowOrigins string
}

// AdminConfig seeds the initial administrator account. No account is created
// when Email is empty.
type AdminConfig struct {
	Email string
	Name  string
}

// ArchiveConfig configures the optional object-storage archive for CSV
// exports. Archiving is disabled when no access key is set.
type ArchiveConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	PublicURL       string
	// RetentionDays bounds how long archived exports are kept; 0 keeps them
	// forever.
	RetentionDays int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "8020"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrDefault("DB_NAME", "translations_db"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret:    os.Getenv("JWT_SECRET"),
			ExpiresIn: getDurationOrDefault("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Locales: LocalesConfig{
			Dir:                getEnvOrDefault("LOCALES_DIR", "locales"),
			SupportedLanguages: getListOrDefault("SUPPORTED_LANGUAGES", []string{"en", "fr", "es"}),
		},
		Upload: UploadConfig{
			MaxCSVSize: getInt64OrDefault("UPLOAD_MAX_CSV_SIZE", 5*1024*1024),
		},
		RateLimit: RateLimitConfig{
			Max:    getIntOrDefault("RATE_LIMIT_MAX", 100),
			Window: getDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvOrDefault("CORS_ALLOW_ORIGINS", "*"),
		},
		Archive: ArchiveConfig{
			Endpoint:        getEnvOrDefault("AWS_ENDPOINT", ""),
			AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnvOrDefault("AWS_BUCKET", "translation-exports"),
			Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
			UseSSL:          getBoolOrDefault("AWS_USE_SSL", true),
			PublicURL:       getEnvOrDefault("AWS_URL", ""),
			RetentionDays:   getIntOrDefault("AWS_EXPORT_RETENTION_DAYS", 30),
		},
		Admin: AdminConfig{
			Email: getEnvOrDefault("ADMIN_EMAIL", ""),
			Name:  getEnvOrDefault("ADMIN_NAME", "Administrator"),
		},
	}
}

// GetDSN returns PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if len(c.Locales.SupportedLanguages) == 0 {
		return fmt.Errorf("SUPPORTED_LANGUAGES must not be empty")
	}
	return nil
}

// ArchiveEnabled reports whether export archiving to object storage is
// configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.AccessKeyID != "" && c.Archive.Endpoint != ""
}

func (c *LocalesConfig) IsSupported(language string) bool {
	for _, lang := range c.SupportedLanguages {
		if lang == language {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Insecure defaults that must not reach production
var insecureDefaults = map[string]bool{
	"your-secret-key-change-in-production": true,
	"dev-secret": true,
	"":           true,
}

// Storage backend names
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Provisioner ProvisionerConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type StorageConfig struct {
	Backend string // file or postgres
	DataDir string // file backend only
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Schema   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type ProvisionerConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func Load() *Config {
	// Optional .env for local development; real env vars win either way
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", StorageFile),
			DataDir: getEnv("STORAGE_DATA_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "saas_user"),
			Password: getEnv("DB_PASSWORD", "saas_pass"),
			DBName:   getEnv("DB_NAME", "saas_db"),
			Schema:   getEnv("DB_SCHEMA", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Provisioner: ProvisionerConfig{
			BaseURL:        getEnv("PROVISIONER_API_URL", "http://localhost:5000/api"),
			TimeoutSeconds: getEnvInt("PROVISIONER_TIMEOUT_SECONDS", 60),
		},
	}

	// Do not log secrets
	log.Printf("[config] Storefront Service loaded: port=%s storage=%s provisioner=%s",
		cfg.Server.Port, cfg.Storage.Backend, cfg.Provisioner.BaseURL)

	return cfg
}

// Validate checks that the configuration is usable. Production must set a
// real JWT secret even though the auth flow itself is a client-trusted mock.
func (c *Config) Validate() error {
	if insecureDefaults[c.JWT.SecretKey] {
		return fmt.Errorf("JWT_SECRET_KEY must be set to a secure value (current value is insecure or empty)")
	}
	if len(c.JWT.SecretKey) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters long")
	}

	switch c.Storage.Backend {
	case StorageFile, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageFile, StoragePostgres, c.Storage.Backend)
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

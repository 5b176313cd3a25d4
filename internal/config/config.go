// Package config loads and validates application configuration from the
// environment, with optional .env support.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/zaocat/Purrfit/internal/blob"
	"github.com/zaocat/Purrfit/internal/infra/persistence"
	"github.com/zaocat/Purrfit/pkg/domain"
)

// Config holds the full runtime configuration.
type Config struct {
	Addr string

	AdminUser string
	AdminPass string
	SeedCats  []string

	StorageDriver persistence.Driver
	SQLitePath    string
	PostgresDSN   string

	BlobDriver      blob.Driver
	BlobFSRoot      string
	BlobS3Bucket    string
	BlobS3Region    string
	BlobS3Endpoint  string
	BlobS3PathStyle bool

	LogLevel string
	LogFile  string
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            getEnv("PURRFIT_ADDR", ":8080"),
		AdminUser:       getEnv("PURRFIT_ADMIN_USER", ""),
		AdminPass:       getEnv("PURRFIT_ADMIN_PASS", ""),
		SeedCats:        splitList(getEnv("PURRFIT_CAT_NAMES", "")),
		StorageDriver:   persistence.Driver(getEnv("PURRFIT_STORAGE_DRIVER", string(persistence.DriverSQLite))),
		SQLitePath:      getEnv("PURRFIT_SQLITE_PATH", "purrfit.db"),
		PostgresDSN:     getEnv("PURRFIT_POSTGRES_DSN", ""),
		BlobDriver:      blob.Driver(getEnv("PURRFIT_BLOB_DRIVER", string(blob.DriverFilesystem))),
		BlobFSRoot:      getEnv("PURRFIT_BLOB_FS_ROOT", "blobdata"),
		BlobS3Bucket:    getEnv("PURRFIT_BLOB_S3_BUCKET", ""),
		BlobS3Region:    getEnv("PURRFIT_BLOB_S3_REGION", ""),
		BlobS3Endpoint:  getEnv("PURRFIT_BLOB_S3_ENDPOINT", ""),
		BlobS3PathStyle: getEnvBool("PURRFIT_BLOB_S3_PATH_STYLE", false),
		LogLevel:        getEnv("PURRFIT_LOG_LEVEL", "info"),
		LogFile:         getEnv("PURRFIT_LOG_FILE", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.AdminUser == "" || c.AdminPass == "" {
		return fmt.Errorf("%w: PURRFIT_ADMIN_USER and PURRFIT_ADMIN_PASS are required", domain.ErrNotConfigured)
	}
	switch c.StorageDriver {
	case persistence.DriverMemory, persistence.DriverSQLite, persistence.DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.BlobDriver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.BlobS3Bucket == "" {
			return fmt.Errorf("PURRFIT_BLOB_S3_BUCKET is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document store backends
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string

	// Document store
	DocumentStore string // postgres or mongo
	DatabaseURL   string
	MongoURL      string
	MongoDatabase string

	// Object store (S3-compatible, e.g. Aliyun OSS or MinIO)
	OSSBucket          string
	OSSRegion          string
	OSSEndpoint        string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSForcePathStyle  bool

	// Orphan asset reconciliation
	ReconcileEnabled    bool
	ReconcileInterval   time.Duration // Shared by all categories
	ReconcileDryRun     bool
	ReconcileMatch      string // substring or exact
	ReconcileSkipEmpty  bool   // Don't delete anything when no document references exist
	ReconcileRunOnStart bool

	// CategoriesFile optionally overrides the built-in category table (YAML)
	CategoriesFile string

	// Logging
	LogDir      string // Empty = stdout only
	LogMaxFiles int

	// Debug flags
	Debug bool // Enables the manual reconcile endpoint (deletes objects)
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		DocumentStore: strings.ToLower(getEnv("DOCUMENT_STORE", StorePostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MongoURL:      getEnv("MONGO_URL", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "notes"),

		OSSBucket:          getEnv("OSS_BUCKET", "tanglihe-notes"),
		OSSRegion:          getEnv("OSS_REGION", "us-east-1"),
		OSSEndpoint:        getEnv("OSS_ENDPOINT", ""),
		OSSAccessKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSAccessKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSForcePathStyle:  getBool("OSS_FORCE_PATH_STYLE", false),

		ReconcileEnabled:    getBool("RECONCILE_ENABLED", true),
		ReconcileInterval:   getDuration("RECONCILE_INTERVAL", 24*time.Hour),
		ReconcileDryRun:     getBool("RECONCILE_DRY_RUN", false),
		ReconcileMatch:      strings.ToLower(getEnv("RECONCILE_MATCH", "substring")),
		ReconcileSkipEmpty:  getBool("RECONCILE_SKIP_EMPTY", false),
		ReconcileRunOnStart: getBool("RECONCILE_RUN_ON_START", false),

		CategoriesFile: getEnv("CATEGORIES_FILE", ""),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),

		// Debug flags - opt-in in every environment
		Debug: getBool("DEBUG", false),
	}
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DocumentStore, validation.Required, validation.In(StorePostgres, StoreMongo)),
		validation.Field(&c.DatabaseURL, validation.When(c.DocumentStore == StorePostgres, validation.Required)),
		validation.Field(&c.MongoURL, validation.When(c.DocumentStore == StoreMongo, validation.Required)),
		validation.Field(&c.MongoDatabase, validation.When(c.DocumentStore == StoreMongo, validation.Required)),
		validation.Field(&c.OSSBucket, validation.Required),
		validation.Field(&c.ReconcileInterval,
			validation.Required.Error("must be a duration such as 24h or a millisecond count"),
			validation.Min(time.Second),
		),
		validation.Field(&c.ReconcileMatch, validation.In("substring", "exact")),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

// getDuration reads a Go duration ("24h"). A bare integer is a millisecond
// count. A value that parses as neither yields 0, which Validate rejects.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

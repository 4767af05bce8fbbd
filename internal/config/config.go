package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultDriver        = "sqlite"
	defaultEnv           = "development"
	defaultMigrationsDir = "migrations"
	defaultStorageDir    = "./data"
	defaultBaseURL       = "http://localhost:8080"
	defaultApprovalTTL   = 14 * 24 * time.Hour
	defaultCatalogTTL    = 7 * 24 * time.Hour
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	MigrationsDir string

	ApprovalSecret string
	ApprovalTTL    time.Duration
	PublicBaseURL  string
	CatalogTTL     time.Duration
	FontDir        string

	StorageDir  string
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	EmailAPIURL  string
	EmailAPIKey  string
	EmailFrom    string
	ManagerEmail string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: could not read .env: %v", err)
	}

	cfg := Config{
		Env:           getenv("APP_ENV", defaultEnv),
		Port:          getenv("PORT", defaultPort),
		DBDriver:      getenv("DB_DRIVER", defaultDriver),
		DBPath:        getenv("DB_PATH", defaultDBPath),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrationsDir: getenv("MIGRATIONS_DIR", defaultMigrationsDir),

		ApprovalSecret: os.Getenv("APPROVAL_SECRET"),
		ApprovalTTL:    durationEnv("APPROVAL_TTL", defaultApprovalTTL),
		PublicBaseURL:  strings.TrimRight(getenv("PUBLIC_BASE_URL", defaultBaseURL), "/"),
		CatalogTTL:     durationEnv("CATALOG_TTL", defaultCatalogTTL),
		FontDir:        os.Getenv("FONT_DIR"),

		StorageDir:  getenv("STORAGE_DIR", defaultStorageDir),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    getenv("S3_REGION", "auto"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		EmailAPIURL:  os.Getenv("EMAIL_API_URL"),
		EmailAPIKey:  os.Getenv("EMAIL_API_KEY"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),
		ManagerEmail: os.Getenv("MANAGER_EMAIL"),
	}

	if cfg.ApprovalSecret == "" {
		log.Print("warning: APPROVAL_SECRET is not set")
	}
	if cfg.DBDriver == "pgx" && cfg.DatabaseURL == "" {
		log.Print("warning: DB_DRIVER is pgx but DATABASE_URL is not set")
	}
	if cfg.EmailAPIKey == "" {
		log.Print("warning: EMAIL_API_KEY is not set, emails will only be logged")
	}
	if cfg.ManagerEmail == "" {
		log.Print("warning: MANAGER_EMAIL is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// UsesS3 reports whether signed documents go to object storage.
func (c Config) UsesS3() bool {
	return c.S3Bucket != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

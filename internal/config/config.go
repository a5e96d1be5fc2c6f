package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values. It is built once at startup
// and passed by value to the components that need it.
type Config struct {
	Secret         string
	TokenTTL       time.Duration
	DatabaseDriver string
	DatabaseDSN    string
	HTTPPort       string
	UploadDir      string
	AllowedOrigins []string
	MaxUploadBytes int64
	SeedDir        string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		log.Printf("SECRET is not set, using an insecure development key")
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	driver := os.Getenv("DATABASE_DRIVER")
	switch driver {
	case "":
		driver = "sqlite"
	case "sqlite", "pgx":
	case "postgres":
		driver = "pgx"
	default:
		log.Printf("unsupported DATABASE_DRIVER %q, defaulting to sqlite", driver)
		driver = "sqlite"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		if driver == "sqlite" {
			dsn = "site.db"
		} else {
			dsn = postgresDSN()
		}
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return Config{
		Secret:         secret,
		TokenTTL:       time.Duration(intEnv("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		DatabaseDriver: driver,
		DatabaseDSN:    dsn,
		HTTPPort:       port,
		UploadDir:      uploadDir,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS"), []string{"*"}),
		MaxUploadBytes: int64(intEnv("MAX_UPLOAD_MB", 32)) << 20,
		SeedDir:        os.Getenv("SEED_DIR"),
	}
}

// postgresDSN composes a DSN from DB_-prefixed variables so the shell's own
// USER and HOST never leak into it.
func postgresDSN() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "orgsite"
	}
	password := os.Getenv("DB_PASSWORD")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, dbPort, name)
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid %s value %q, defaulting to %d", key, raw, def)
		return def
	}
	return n
}

func splitList(raw string, def []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings of both the POS front-end and the reference API.
type Config struct {
	// Front-end
	APIBaseURL        string
	StoragePath       string
	DownloadDir       string
	OpenReceipts      bool
	HTTPTimeout       time.Duration
	GuestPollInterval time.Duration

	// Reference API
	Port      string
	DBPath    string
	JWTSecret []byte
	GinMode   string
}

// Load reads .env (when present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:        getEnv("POS_API_URL", "http://localhost:8080/api"),
		StoragePath:       getEnv("POS_STORAGE_PATH", defaultStoragePath()),
		DownloadDir:       getEnv("POS_DOWNLOAD_DIR", os.TempDir()),
		OpenReceipts:      getBool("POS_OPEN_RECEIPTS", true),
		HTTPTimeout:       getDuration("POS_HTTP_TIMEOUT", 15*time.Second),
		GuestPollInterval: getDuration("GUEST_POLL_INTERVAL", 30*time.Second),

		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("POS_DB_PATH", "resto_pos.db"),
		JWTSecret: []byte(getEnv("JWT_SECRET", "resto_pos_dev_secret")),
		GinMode:   os.Getenv("GIN_MODE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

// getDuration accepts Go durations ("30s") or plain seconds ("30")
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "resto_pos_local.db"
	}
	return filepath.Join(dir, "resto-pos", "local.db")
}

package config

import (
	"os"
	"strconv"

	bolt "go.etcd.io/bbolt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config dibangun sekali di awal proses dan dioper ke semua komponen;
// tidak ada guard "sudah init belum" per-call.
type Config struct {
	DBDriver          string  // sqlite | mysql
	DBDSN             string  // path file sqlite atau DSN mysql
	FallbackDBPath    string  // file bbolt untuk backend fallback
	LowStockThreshold float64 // ambang event stock_low
	AllowOversell     bool    // clamp-at-zero vs tolak order
	Port              string
}

func Load() Config {
	cfg := Config{
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBDSN:             getEnv("DB_DSN", "cafe_pos.db"),
		FallbackDBPath:    getEnv("FALLBACK_DB_PATH", "cafe_pos_fallback.db"),
		LowStockThreshold: getEnvFloat("LOW_STOCK_THRESHOLD", 10),
		AllowOversell:     getEnvBool("ALLOW_OVERSELL", true),
		Port:              getEnv("PORT", "8080"),
	}
	return cfg
}

// InitDB membuka backend relational sesuai driver yang dipilih
func InitDB(cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	}
}

// OpenFallback membuka file bbolt untuk backend fallback
func OpenFallback(cfg Config) (*bolt.DB, error) {
	return bolt.Open(cfg.FallbackDBPath, 0600, nil)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

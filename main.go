package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-pos/config"
	"github.com/yeremiapane/cafe-pos/database"
	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/middlewares"
	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/router"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	// Initialize logger
	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	cfg := config.Load()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Backend fallback (bbolt) selalu dibuka: sumber migrasi sekaligus
	// cadangan kalau engine relational tidak tersedia
	var fallback storage.Store
	if boltDB, err := config.OpenFallback(cfg); err != nil {
		utils.ErrorLogger.Printf("Failed to open fallback store: %v", err)
	} else if boltStore, err := storage.NewBoltStore(boltDB); err != nil {
		utils.ErrorLogger.Printf("Failed to init fallback store: %v", err)
	} else {
		fallback = boltStore
	}

	// Backend utama: relational. Kalau gagal dibuka, engine jalan di atas
	// fallback dengan unit-of-work yang lebih lemah (tanpa rollback).
	var active storage.Store
	usingFallback := false
	db, err := config.InitDB(cfg)
	if err == nil {
		autoMigrate(db)
		active = storage.NewGormStore(db)
	} else {
		utils.ErrorLogger.Printf("Failed to connect to database, running on fallback store: %v", err)
		if fallback == nil {
			utils.ErrorLogger.Fatal("No storage backend available")
		}
		active = fallback
		usingFallback = true
	}

	hub := events.NewHub()
	var migrationSource storage.Store
	if !usingFallback {
		migrationSource = fallback
	}
	svcs := router.NewServices(active, migrationSource, hub)
	svcs.Stock.LowStockThreshold = cfg.LowStockThreshold
	svcs.Stock.AllowOversell = cfg.AllowOversell

	// Migrasi satu kali fallback -> transactional saat startup
	if svcs.Migration != nil {
		if shouldRun, err := svcs.Migration.ShouldRun(); err != nil {
			utils.ErrorLogger.Printf("Migration check failed: %v", err)
		} else if shouldRun {
			result, err := svcs.Migration.MigrateAll()
			if err != nil {
				utils.ErrorLogger.Printf("Migration failed: %v", err)
			} else if !result.Success {
				utils.ErrorLogger.Printf("Migration incomplete, fallback data retained: %v", result.Errors)
			}
		}
	}

	// Setup rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(svcs)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Flavor{},
		&models.Material{},
		&models.Ingredient{},
		&models.Addon{},
		&models.Product{},
		&models.Size{},
		&models.SizeMaterial{},
		&models.SizeIngredient{},
		&models.StockRecord{},
		&models.Order{},
		&models.CashFlowTransaction{},
		&models.Setting{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ApplyConstraints(db); err != nil {
		utils.ErrorLogger.Printf("Error applying schema constraints: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/providers/off"
	"github.com/StephanBK/sloth/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var admittedProductsCounter prometheus.Counter

func init() {
	admittedProductsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_admitted_total",
			Help: "Total number of new products admitted to the catalog.",
		},
	)
	prometheus.MustRegister(admittedProductsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to catalog database", zap.Error(err))
	}
	logging.Info("Successfully connected to catalog database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Product{}, &models.ProductSourceLink{}, &models.ProductAvailability{})

	importService := services.NewImportService(cfg, db, logging)
	offSource := off.NewStagingSource(cfg, logging)
	verifier := services.NewVerifier(db, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupProductRoutes(router, db, logging)
	setupVerifyRoutes(router, verifier)
	setupSyncRoutes(router, importService, offSource, logging)

	// Wöchentlicher OFF-Re-Import aus der zuletzt gefilterten Staging-Datei
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled catalog sync...")
		stats, err := importService.Run(context.Background(), offSource, false)
		if err != nil {
			logging.Error("Cron sync failed", zap.Error(err))
		} else {
			logging.Info("Cron sync completed", zap.Int("admitted", stats.Admitted))
			admittedProductsCounter.Add(float64(stats.Admitted))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupProductRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/products")

	// Einfacher GET-Endpunkt für alle Produkte (gedeckelt, sonst kippt die Response)
	rg.GET("/", func(c *gin.Context) {
		var products []models.Product
		if err := db.Limit(500).Order("created_at desc").Find(&products).Error; err != nil {
			log.Error("Database query for all products failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, products)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			log.Error("DB error fetching product", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, product)
	})

	// Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type ProductQuery struct {
			Name       string   `json:"name"` // Teilstring-Suche, case-insensitive
			EAN        string   `json:"ean"`
			Category   string   `json:"category"`
			DataSource string   `json:"data_source"`
			IsCurated  *bool    `json:"is_curated"`
			MaxKcal    *float64 `json:"max_kcal"`
			MinProtein *float64 `json:"min_protein"`
			StoreChain string   `json:"store_chain"`
			Limit      int      `json:"limit"`
		}

		var req ProductQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Product{})

		if req.Name != "" {
			query = query.Where("name ILIKE ?", "%"+req.Name+"%")
		}
		if req.EAN != "" {
			query = query.Where("ean = ?", req.EAN)
		}
		if req.Category != "" {
			query = query.Where("category = ?", req.Category)
		}
		if req.DataSource != "" {
			query = query.Where("data_source = ?", req.DataSource)
		}
		if req.IsCurated != nil {
			query = query.Where("is_curated = ?", *req.IsCurated)
		}
		if req.MaxKcal != nil {
			query = query.Where("calories_per_100g <= ?", *req.MaxKcal)
		}
		if req.MinProtein != nil {
			query = query.Where("protein_per_100g >= ?", *req.MinProtein)
		}
		if req.StoreChain != "" {
			query = query.Where("id IN (?)",
				db.Model(&models.ProductAvailability{}).
					Select("product_id").
					Where("store_chain = ? AND is_available = ?", req.StoreChain, true))
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var products []models.Product
		if err := query.Order("created_at desc").Find(&products).Error; err != nil {
			log.Error("Database query for products failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, products)
	})

	// Quellen-Historie eines Produkts
	rg.GET("/:id/source-links", func(c *gin.Context) {
		id := c.Param("id")
		var links []models.ProductSourceLink
		if err := db.Where("product_id = ?", id).Order("matched_at desc").Find(&links).Error; err != nil {
			log.Error("DB error fetching source links", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupVerifyRoutes(router *gin.Engine, verifier *services.Verifier) {
	router.GET("/verify", func(c *gin.Context) {
		report, err := verifier.Run()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			return
		}
		c.JSON(http.StatusOK, report)
	})
}

func setupSyncRoutes(router *gin.Engine, importService *services.ImportService, offSource *off.StagingSource, log *zap.Logger) {
	rg := router.Group("/sync")
	rg.POST("/off", func(c *gin.Context) {
		go func() {
			stats, err := importService.Run(context.Background(), offSource, false)
			if err != nil {
				log.Error("Async catalog sync failed", zap.Error(err))
			} else {
				admittedProductsCounter.Add(float64(stats.Admitted))
				log.Info("Async catalog sync completed", zap.Int("admitted", stats.Admitted))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Catalog sync from staging file triggered."})
	})
}

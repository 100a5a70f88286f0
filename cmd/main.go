package main

import (
	"net/http"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/handler"
	mid "github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/middleware"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/repository"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/service"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/config"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/database"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/logger"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting product catalog service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire repositories and services
	db := database.GetDB()
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)
	changeLogService := service.NewChangeLogService(changeLogRepo, productRepo, log)
	productService := service.NewProductService(db, productRepo, categoryRepo, changeLogService, log)

	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(productService)
	changeLogHandler := handler.NewChangeLogHandler(changeLogService)

	// Initialize Echo instance
	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product API routes
	productAPI := e.Group("/api/products")
	productAPI.GET("", productHandler.Search)
	productAPI.GET("/:id", productHandler.Get)
	productAPI.POST("", productHandler.Create)
	productAPI.PUT("/:id", productHandler.Update)
	productAPI.DELETE("/:id", productHandler.Delete)

	// Category API routes
	e.GET("/api/categories", categoryHandler.List)

	// Change log API routes
	changeLogAPI := e.Group("/api/change-logs")
	changeLogAPI.GET("", changeLogHandler.Query)
	changeLogAPI.GET("/recent", changeLogHandler.Recent)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

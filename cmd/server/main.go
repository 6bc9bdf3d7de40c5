package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"solar-rewards/internal/repository"
	"solar-rewards/internal/service"
	"solar-rewards/pkg/config"
	"solar-rewards/pkg/database"
)

func main() {
	lg := logger.Init("solar-rewards", true, false, os.Stdout)
	defer lg.Close()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoDB, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoDB.Disconnect(context.Background()); err != nil {
			logger.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	logger.Info("Connected to MongoDB successfully")

	// Initialize repositories
	promotionRepo := repository.NewPromotionRepository(mongoDB.Database)
	participationRepo := repository.NewParticipationRepository(mongoDB.Database)
	installerRepo := repository.NewInstallerRepository(mongoDB.Database)
	serialRepo := repository.NewSerialRepository(mongoDB.Database)

	// Initialize services; the cascade delete needs the unit of work
	uow := database.NewUnitOfWork(mongoDB.Client)
	promotionSvc := service.NewPromotionService(promotionRepo, participationRepo, uow)
	participationSvc := service.NewParticipationService(promotionRepo, participationRepo, installerRepo, serialRepo)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := setupRouter(promotionSvc, participationSvc)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func setupRouter(promotionSvc *service.PromotionService, participationSvc *service.ParticipationService) *gin.Engine {
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		api.POST("/promotions", createPromotionHandler(promotionSvc))
		api.GET("/promotions", listActivePromotionsHandler(promotionSvc))
		api.GET("/promotions/:id", getPromotionHandler(promotionSvc))
		api.PUT("/promotions/:id", updatePromotionHandler(promotionSvc))
		api.DELETE("/promotions/:id", deletePromotionHandler(promotionSvc))

		api.POST("/promotions/:id/join", joinPromotionHandler(participationSvc))
		api.POST("/promotions/:id/refresh", refreshProgressHandler(participationSvc))
		api.GET("/installers/:id/promotions", listForInstallerHandler(participationSvc))
		api.PATCH("/participations/:id/reward", setRewardStatusHandler(participationSvc))
	}

	return router
}

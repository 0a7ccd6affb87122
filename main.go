package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geovista-api/config"
	"geovista-api/database"
	"geovista-api/jobs"
	"geovista-api/middleware"
	"geovista-api/routes"
	"geovista-api/services"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.Migrate(db, log); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	if err := database.SeedData(db); err != nil {
		log.WithError(err).Warn("failed to seed database")
	}

	storageService, err := services.NewLocalStorageService(cfg.UploadDir, cfg.UploadURL)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare upload directory")
	}

	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RateLimit(120, 30))

	router.Static(cfg.UploadURL, cfg.UploadDir)

	authService := routes.SetupRoutes(router, db, cfg, storageService, log)

	cleanupJob := jobs.NewSessionCleanupJob(authService, log, time.Hour)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	log.WithField("port", cfg.Port).Info("starting GeoVista API server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

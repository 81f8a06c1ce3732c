package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/medicore/hospital-portal/internal/api"
	"github.com/medicore/hospital-portal/internal/appointment"
	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/auth"
	"github.com/medicore/hospital-portal/internal/config"
	"github.com/medicore/hospital-portal/internal/database"
	"github.com/medicore/hospital-portal/internal/doctor"
	"github.com/medicore/hospital-portal/internal/medservice"
	"github.com/medicore/hospital-portal/internal/patient"
	"github.com/medicore/hospital-portal/internal/store"
	"github.com/medicore/hospital-portal/internal/uploads"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, err := database.NewMongoClient(ctx, database.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		MinPoolSize:    cfg.Mongo.MinPoolSize,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Disconnect(context.Background(), client)

	recordStore := store.NewMongo(client.Database(cfg.Mongo.Database))

	// The audit trail is optional in local setups; without Elasticsearch
	// events still reach the process log.
	var auditService audit.Service
	if cfg.Elasticsearch.URL != "" {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elasticsearch.URL},
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Elasticsearch", zap.Error(err))
		}
		auditService = audit.NewService(esClient)
	} else {
		logger.Warn("Elasticsearch not configured, audit events go to the process log only")
		auditService = audit.NewNop()
	}

	authService := auth.NewService(recordStore, auditService, auth.ServiceConfig{
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
	})

	doctorService := doctor.NewService(recordStore, auditService)
	serviceCatalog := medservice.NewService(recordStore, auditService)
	patientService := patient.NewService(recordStore, auditService)
	appointmentService := appointment.NewService(recordStore, auditService)
	uploadService := uploads.NewService(uploads.Config{
		BaseURL:      cfg.Cloudinary.BaseURL,
		CloudName:    cfg.Cloudinary.CloudName,
		UploadPreset: cfg.Cloudinary.UploadPreset,
	})

	handler := api.NewHandler(
		doctorService,
		serviceCatalog,
		patientService,
		appointmentService,
		authService,
		uploadService,
		auditService,
		recordStore,
		logger,
	)

	engine := api.NewRouter(handler, auth.NewMiddleware(authService), logger, api.RouterConfig{
		Mode:              cfg.Server.Mode,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: engine,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

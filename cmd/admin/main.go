package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/auth"
	"github.com/medicore/hospital-portal/internal/config"
	"github.com/medicore/hospital-portal/internal/database"
	"github.com/medicore/hospital-portal/internal/store"
)

// Bootstraps the first admin account. Later staff accounts are created
// through the admin API.
func main() {
	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "", "admin display name")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		log.Fatal("usage: admin -email <email> -name <name> -password <password>")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	client, err := database.NewMongoClient(ctx, database.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		MinPoolSize:    cfg.Mongo.MinPoolSize,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Disconnect(context.Background(), client)

	recordStore := store.NewMongo(client.Database(cfg.Mongo.Database))
	authService := auth.NewService(recordStore, audit.NewNop(), auth.ServiceConfig{
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
	})

	user, err := authService.Register(ctx, *email, *name, *password, []string{auth.RoleAdmin})
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created admin user %s (%s)", user.Email, user.ID)
}

package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicore/hospital-portal/internal/config"
	"github.com/medicore/hospital-portal/internal/database"
	"github.com/medicore/hospital-portal/internal/store"
)

// Creates the indexes the portal queries rely on. Safe to run repeatedly;
// CreateMany is a no-op for indexes that already exist.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	db := client.Database(cfg.Mongo.Database)

	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	createIndexes(ctx, db, store.CollectionUsers, users)

	appointments := []mongo.IndexModel{
		// Conflict lookups during booking. Not unique: cancelled
		// appointments legitimately share a slot with a later booking.
		// TODO: make this a partial unique index over non-cancelled
		// statuses once we can require MongoDB 6.3 ($in in
		// partialFilterExpression).
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}},
		// Admin list order.
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	createIndexes(ctx, db, store.CollectionAppointments, appointments)

	log.Println("Indexes created")
}

func createIndexes(ctx context.Context, db *mongo.Database, collection string, models []mongo.IndexModel) {
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Fatalf("Failed to create indexes on %s: %v", collection, err)
	}
	log.Printf("%s: %v", collection, names)
}

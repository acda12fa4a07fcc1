// Seeds the MongoDB ledger with the demo catalog and store list.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aditya13-hue/zup/internal/catalog"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/logger"
)

func main() {
	log := logger.New("zup-seed")

	mongoURI := getEnv("ZUP_MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("ZUP_MONGO_DB", "zupdb")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := ledger.Connect(ctx, mongoURI, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(ctx)

	products := ledger.NewMongoProductLedger(db)
	stores := ledger.NewMongoStoreLedger(db)

	if err := catalog.Seed(ctx, products, stores); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	log.Info().
		Int("products", len(catalog.DemoProducts())).
		Int("stores", len(catalog.DemoStores())).
		Msg("ledger seeded")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Command setup provisions everything the storefront needs on first run:
// the product image bucket, the database schema, and the starter catalog.
// It is safe to run more than once.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"maisonneuve/internal/config"
	"maisonneuve/internal/repos"
	"maisonneuve/internal/storage"
)

func main() {
	log.SetFlags(0)
	log.Println("🚀 Completing store setup...")

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Step 1: image bucket
	log.Println("📦 Step 1: Setting up image bucket...")
	if cfg.AWSAccessKeyID != "" || cfg.S3Endpoint != "" {
		store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ object store init failed: %v", err)
		}
		if err := store.EnsureBucket(ctx, cfg.AWSRegion); err != nil {
			log.Fatalf("❌ bucket %q: %v", cfg.MediaBucket, err)
		}
		log.Printf("✅ Bucket %q is ready", cfg.MediaBucket)
	} else {
		log.Println("⚠️  No object store credentials; skipping bucket setup")
	}

	// Step 2: database tables (OpenDB creates and migrates)
	log.Println("🗄️  Step 2: Checking database tables...")
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatalf("❌ database open failed: %v", err)
	}
	defer db.Close()

	missing := 0
	for _, table := range repos.RequiredTables {
		var one int
		q := fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table)
		if err := db.Get(&one, q); err != nil && err.Error() != "sql: no rows in result set" {
			log.Printf("❌ Table %q: %v", table, err)
			missing++
			continue
		}
		log.Printf("✅ Table %q exists", table)
	}
	if missing > 0 {
		log.Fatalf("❌ %d table(s) unavailable; aborting", missing)
	}

	// Step 3: starter catalog
	log.Println("🌱 Step 3: Seeding sample products...")
	if err := repos.SeedProductsIfEmpty(db); err != nil {
		log.Fatalf("❌ seeding failed: %v", err)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM products`); err != nil {
		log.Fatalf("❌ product count: %v", err)
	}
	log.Printf("✅ Catalog holds %d product(s)", count)
	log.Println("🎉 Setup complete! You can now run the storefront.")
}

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Image bucket settings. S3Endpoint is optional and lets a
	// MinIO-style store stand in during development.
	MediaBucket        string
	MediaBaseURL       string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Endpoint         string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getenv("PORT", "8080"),
		DBDSN:              getenv("DB_DSN", "maisonneuve.db"), // sqlite file in project root
		LogFile:            getenv("LOG_FILE", "./maisonneuve.log"),
		MediaBucket:        getenv("MEDIA_BUCKET", "product-images"),
		MediaBaseURL:       getenv("MEDIA_BASE_URL", ""),
		AWSRegion:          getenv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_BUCKET=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaBucket, cfg.LogFile)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

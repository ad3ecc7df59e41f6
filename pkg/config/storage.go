package config

import "time"

type StorageConfig struct {
	Mode         string // "local" o "s3"
	LocalDir     string
	AWSRegion    string
	AWSBucket    string
	SignedURLTTL time.Duration
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:         getEnv("STORAGE_MODE", "local"),
		LocalDir:     getEnv("UPLOAD_DIR", "./uploads"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSBucket:    getEnv("AWS_BUCKET", "hireflow-assets"),
		SignedURLTTL: getEnvDuration("STORAGE_SIGNED_URL_TTL", 15*time.Minute),
	}
}

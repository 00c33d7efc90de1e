package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		GetLogrusInstance().Warnf("invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func GetBasePath() string {
	return strings.TrimRight(getEnv("HTTP_BASE_PATH", "/api"), "/")
}

func GetJWTSecret() (string, error) {
	v := os.Getenv("JWT_SECRET")
	if v == "" {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}
	return v, nil
}

func GetJWTTTL() time.Duration {
	return getDuration("JWT_TTL", 24*time.Hour)
}

func GetRequestTimeout() time.Duration {
	return getDuration("REQUEST_TIMEOUT", 5*time.Second)
}

func GetLockTTL() time.Duration {
	return getDuration("LOCK_TTL", 10*time.Second)
}

func GetCORSOrigins() string {
	return getEnv("CORS_ORIGINS", "*")
}

func GetRedisAddress() string {
	return os.Getenv("REDIS_ADDRESS")
}

func GetRedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}

func GetRabbitMQURL() string {
	return os.Getenv("RABBITMQ_URL")
}

func GetAdoptionEventsQueue() string {
	return getEnv("ADOPTION_EVENTS_QUEUE", "adoption.events")
}

type BlobConfig struct {
	Driver        string
	Bucket        string
	Region        string
	Endpoint      string
	PathStyle     bool
	PublicBaseURL string
}

func GetBlobConfig() BlobConfig {
	return BlobConfig{
		Driver:        strings.ToLower(getEnv("BLOB_DRIVER", "memory")),
		Bucket:        os.Getenv("BLOB_S3_BUCKET"),
		Region:        getEnv("BLOB_S3_REGION", "us-east-1"),
		Endpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
		PathStyle:     getBool("BLOB_S3_PATH_STYLE", false),
		PublicBaseURL: os.Getenv("BLOB_PUBLIC_BASE_URL"),
	}
}

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

func GetAdminSeed() AdminSeed {
	return AdminSeed{
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    strings.ToLower(getEnv("ADMIN_EMAIL", "admin@orphancare.local")),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
}

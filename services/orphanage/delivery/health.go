package delivery

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type healthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	startTime   time.Time
	version     string
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthDelivery mounts liveness, readiness and metrics. redisClient may
// be nil when no redis is configured.
func NewHealthDelivery(router fiber.Router, db *gorm.DB, redisClient *redis.Client) {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	handler := &healthHandler{
		db:          db,
		redisClient: redisClient,
		startTime:   time.Now(),
		version:     version,
	}

	router.Get("/health", handler.Health)
	router.Get("/health/ready", handler.Ready)
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (h *healthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"version":   h.version,
	})
}

func (h *healthHandler) Ready(c *fiber.Ctx) error {
	checks := map[string]Check{
		"database": h.checkDatabase(c.UserContext()),
	}
	if h.redisClient != nil {
		checks["redis"] = h.checkRedis(c.UserContext())
	}

	status := "UP"
	code := fiber.StatusOK
	for _, check := range checks {
		if check.Status != "UP" {
			status = "DOWN"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

func (h *healthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "Database connection is not initialized"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return Check{Status: "DOWN", Message: "Database connection is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func (h *healthHandler) checkRedis(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to Redis"}
	}
	return Check{Status: "UP"}
}

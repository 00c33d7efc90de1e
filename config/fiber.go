package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func GetFiberListenAddress() string {
	return fmt.Sprintf("%s:%s", GetFiberHttpHost(), GetFiberHttpPort())
}

func GetFiberConfig() fiber.Config {
	return fiber.Config{
		DisableStartupMessage: false,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Prefork:               false,
		ServerHeader:          "ORPHANCARE",
		AppName:               GetAppName(),
		ReadTimeout:           time.Second * 60,
		CaseSensitive:         true,
		BodyLimit:             30 * 1024 * 1024,
		ErrorHandler:          fiberErrorHandler,
	}
}

// fiberErrorHandler keeps the {"message": ...} body for errors raised by
// fiber itself, such as unknown routes or oversized bodies.
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		GetLogrusInstance().WithError(err).Error("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"message": msg})
}

func GetAppName() string {
	return getEnv("APP_NAME", "ORPHANCARE")
}

func GetFiberHttpHost() string {
	return getEnv("HTTP_HOST", "0.0.0.0")
}

func GetFiberHttpPort() string {
	return getEnv("HTTP_PORT", "8000")
}

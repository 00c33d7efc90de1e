package config

import (
	"net/http"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logrusInstance *logrus.Logger
	logrusOnce     sync.Once
)

func GetLogrusInstance() *logrus.Logger {
	logrusOnce.Do(func() {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
		level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
		if err != nil {
			level = logrus.InfoLevel
		}
		logrusInstance.SetLevel(level)
		logrusInstance.SetOutput(os.Stdout)
	})
	return logrusInstance
}

// PrintLogInfo records the outcome of one handler call. userID may be nil for
// unauthenticated routes.
func PrintLogInfo(userID *string, statusCode int, functionName string) {
	user := "Unknown"
	if userID != nil && *userID != "" {
		user = *userID
	}

	entry := GetLogrusInstance().WithFields(logrus.Fields{
		"user":     user,
		"handler":  functionName,
		"status":   statusCode,
		"response": http.StatusText(statusCode),
	})

	switch {
	case statusCode >= 500:
		entry.Error("request failed")
	case statusCode >= 400:
		entry.Warn("request rejected")
	default:
		entry.Info("request served")
	}
}

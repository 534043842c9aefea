// Package logger provides logging utilities for mailalert.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new logger.
// Possible values of debugLevel are: "debug", "info", "warn", "error".
// Default value is "info".
func NewLogger(debugLevel string) *logrus.Logger {
	appLog := logrus.New()
	appLog.SetFormatter(&logrus.TextFormatter{
		DisableColors:    false,
		FullTimestamp:    false,
		DisableTimestamp: true,
	})
	// Output to stdout instead of the default stderr
	appLog.SetOutput(os.Stdout)

	switch debugLevel {
	case "debug":
		appLog.SetLevel(logrus.DebugLevel)
	case "warn":
		appLog.SetLevel(logrus.WarnLevel)
	case "error":
		appLog.SetLevel(logrus.ErrorLevel)
	default:
		appLog.SetLevel(logrus.InfoLevel)
	}
	return appLog
}

// NoLogger creates a logger that does not log anything.
func NoLogger() *logrus.Logger {
	appLog := logrus.New()
	appLog.SetOutput(io.Discard)
	return appLog
}

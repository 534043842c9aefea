package logger_test

import (
	"testing"

	"github.com/sgaunet/mailalert/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel logrus.Level
	}{
		{
			name:      "debug level",
			level:     "debug",
			wantLevel: logrus.DebugLevel,
		},
		{
			name:      "warn level",
			level:     "warn",
			wantLevel: logrus.WarnLevel,
		},
		{
			name:      "error level",
			level:     "error",
			wantLevel: logrus.ErrorLevel,
		},
		{
			name:      "unknown defaults to info",
			level:     "whatever",
			wantLevel: logrus.InfoLevel,
		},
		{
			name:      "empty defaults to info",
			level:     "",
			wantLevel: logrus.InfoLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appLog := logger.NewLogger(tt.level)
			assert.Equal(t, tt.wantLevel, appLog.Level)
		})
	}
}

func TestNoLogger(t *testing.T) {
	appLog := logger.NoLogger()
	assert.NotNil(t, appLog)
	// Must not panic when used.
	appLog.Infoln("discarded")
}

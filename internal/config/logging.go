package config

import (
	"github.com/sirupsen/logrus"
)

// NewLogger creates the process logger. Unknown levels fall back to info.
func NewLogger(level string, verbose bool) *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	switch {
	case verbose:
		logger.SetLevel(logrus.DebugLevel)
	case level != "":
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			logger.Warnf("Unknown LOG_LEVEL %q, using info", level)
			parsed = logrus.InfoLevel
		}
		logger.SetLevel(parsed)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// Init configures the process-wide logger.
// An empty level falls back to LOG_LEVEL, then to debug in development and info otherwise.
func Init(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// Artifacts may be written to stdout by the CLI, so logs go to stderr.
	log.SetOutput(os.Stderr)

	Logger = log
	return log
}

// Get returns the process-wide logger, initialising it on first use.
func Get() *logrus.Logger {
	if Logger == nil {
		return Init("", false)
	}
	return Logger
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithComponent tags entries with the component emitting them.
func WithComponent(log logrus.FieldLogger, component string) *logrus.Entry {
	if log == nil {
		log = Get()
	}
	return log.WithField("component", component)
}

// WithRun tags entries with a batch run identifier.
func WithRun(log logrus.FieldLogger, runID string) *logrus.Entry {
	if log == nil {
		log = Get()
	}
	return log.WithField("run_id", runID)
}

// WithPlayer creates an entry carrying player context.
func WithPlayer(log logrus.FieldLogger, name string, playerID int64) *logrus.Entry {
	if log == nil {
		log = Get()
	}
	fields := logrus.Fields{"player_name": name}
	if playerID != 0 {
		fields["player_id"] = playerID
	}
	return log.WithFields(fields)
}

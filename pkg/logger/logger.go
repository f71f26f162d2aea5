package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

var (
	fileMu  sync.Mutex
	logFile *os.File
)

type contextKey struct{}

func Init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		ForceColors:     true,
		PadLevelText:    true,
	})
	Logger.SetLevel(logrus.DebugLevel)
}

// Configure applies level, format and an optional log file on top of Init.
func Configure(level, format, path string) error {
	if parsed, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		Logger.SetLevel(parsed)
	} else if strings.TrimSpace(level) != "" {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	fileMu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	fileMu.Unlock()

	Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

func Close() error {
	fileMu.Lock()
	defer fileMu.Unlock()

	if logFile == nil {
		return nil
	}
	Logger.SetOutput(os.Stdout)
	err := logFile.Close()
	logFile = nil
	return err
}

// ContextWithFields attaches fields that FromContext adds to every entry.
func ContextWithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	merged := make(logrus.Fields, len(fields))
	if existing, ok := ctx.Value(contextKey{}).(logrus.Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, contextKey{}, merged)
}

func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return logrus.NewEntry(Logger)
	}
	if fields, ok := ctx.Value(contextKey{}).(logrus.Fields); ok {
		return Logger.WithFields(fields)
	}
	return logrus.NewEntry(Logger)
}

func Info(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Info(msg)
}

func Error(err error, msg string, fields map[string]interface{}) {
	Logger.WithError(err).WithFields(fields).Error(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Warn(msg)
}

func Debug(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Debug(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Fatal(msg)
}

func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		if raw != "" {
			path += "?" + raw
		}

		fields := logrus.Fields{
			"ip":     c.ClientIP(),
			"method": c.Request.Method,
			"path":   path,
			"status": status,
			"took":   duration,
		}

		entry := FromContext(c.Request.Context()).WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}

package logging

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = fiber.HeaderXRequestID

// New builds the process logger. Development mode switches to the console
// encoder; unknown levels fall back to info.
func New(level string, development bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

func ParseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// RequestLogger logs one line per request once the handler chain returns.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		started := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fiberErr, ok := chainErr.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(started)),
			zap.String("ip", c.IP()),
		}
		if requestID := requestIDOf(c); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		if chainErr != nil {
			fields = append(fields, zap.Error(chainErr))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return chainErr
	}
}

// requestIDOf prefers the id the requestid middleware echoed on the response
// over the one the client sent.
func requestIDOf(c *fiber.Ctx) string {
	if requestID := strings.TrimSpace(c.GetRespHeader(requestIDHeader)); requestID != "" {
		return requestID
	}
	return strings.TrimSpace(c.Get(requestIDHeader))
}

// GormWriter adapts a zap logger to gorm's logger.Writer.
type GormWriter struct {
	logger *zap.SugaredLogger
}

func NewGormWriter(logger *zap.Logger) GormWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return GormWriter{logger: logger.Named("gorm").Sugar()}
}

func (writer GormWriter) Printf(format string, args ...interface{}) {
	writer.logger.Warnf(strings.TrimSpace(format), args...)
}

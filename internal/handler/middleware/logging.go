package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"lendloop/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

type Logger struct {
	logger *slog.Logger
	cfg    config.LogConfig
}

func NewLogger(cfg config.LogConfig) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	// JSON in release so log collectors can parse, text for local reading
	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return &Logger{logger: logger, cfg: cfg}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// LoggingMiddleware emits one record when a request arrives and one when it
// finishes, sharing a generated request id. The caller id is logged from the
// raw header without validation; RequireCallerID does the checking.
func (l *Logger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		requestID := newRequestID()
		c.Set(requestIDKey, requestID)

		base := l.logger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		)
		if caller := c.GetHeader(CallerIDHeader); caller != "" {
			base = base.With(slog.String("caller_id", caller))
		}

		base.Info("request started")

		c.Next()

		status := c.Writer.Status()
		done := base.With(
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(started)),
		)
		if size := c.Writer.Size(); size > 0 {
			done = done.With(slog.Int("response_size", size))
		}
		if len(c.Errors) > 0 {
			done = done.With(slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			done.Error("request completed")
		case status >= 400:
			done.Warn("request completed")
		default:
			done.Info("request completed")
		}
	}
}

func LoggingMiddleware(_ *slog.Logger, cfg config.LogConfig) gin.HandlerFunc {
	return NewLogger(cfg).LoggingMiddleware()
}

func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func newRequestID() string {
	timestamp := time.Now().Format("20060102150405")

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-fallback-%d", timestamp, time.Now().UnixNano()%100000000)
	}
	return fmt.Sprintf("%s-%s", timestamp, hex.EncodeToString(buf))
}

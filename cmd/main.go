package main

import (
	"context"
	"log/slog"
	"os"

	"lendloop/cmd/bootstrap"
	"lendloop/internal/handler/middleware"
	"lendloop/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// default to release so an unset GIN_MODE never leaks debug output
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// @title           lendloop
// @version         1.0
// @description     Peer-to-peer item lending: items, bookings, comments.

// @BasePath  /
// @schemes http https
// @in header
func serveHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			addr := ":" + cfg.Server.Port
			logger.Info("listening", "address", addr, "mode", gin.Mode())
			go func() {
				if err := engine.Run(addr); err != nil {
					logger.Error("http server exited", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("shutting down")
			return nil
		},
	})
}

func newLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Provide(newLogger, func() *gin.Engine { return gin.New() }),
		fx.Invoke(serveHTTP),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

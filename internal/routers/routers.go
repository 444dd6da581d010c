// Package routers wires handlers onto the echo route tree
package routers

import (
	"database/sql"

	"clarify-api/internal/credits"
	"clarify-api/internal/generation"
	"clarify-api/internal/handlers/generate"
	"clarify-api/internal/middleware"
	"clarify-api/internal/transcription"
	"clarify-api/internal/users"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type GenerateRouterConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ModelURL      string
	ModelName     string
	ModelAPIKey   string
}

func RegisterGenerateRoutes(e *echo.Group, wdb *sql.DB, rdb *sql.DB, redisClient *redis.Client, cfg GenerateRouterConfig, log *zap.SugaredLogger) error {
	userManager := users.NewManager(redisClient, rdb, log)
	auth := middleware.NewAuth(userManager)

	ledger := credits.NewLedger(wdb, rdb, log)
	transcriber := transcription.NewWhisper(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, log)
	generator := generation.NewClient(cfg.ModelURL, cfg.ModelName, cfg.ModelAPIKey, log)

	h := generate.NewHandler(ledger, transcriber, generator, userManager, log)

	v1 := e.Group("/v1")
	extractUser := v1.Group("", auth.ExtractUser)
	requireUser := v1.Group("", auth.ExtractUser, auth.RequireUser)

	// The generate route resolves the user but rejects inside the handler:
	// payload validation has to run before the auth check.
	extractUser.POST("/generate", h.HandleGenerate)
	requireUser.GET("/credits", h.HandleCredits)
	return nil
}

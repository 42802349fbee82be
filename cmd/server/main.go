package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meridianpress/leadscout/backend/internal/ai"
	"github.com/meridianpress/leadscout/backend/internal/catalog"
	"github.com/meridianpress/leadscout/backend/internal/config"
	httpapi "github.com/meridianpress/leadscout/backend/internal/http"
	"github.com/meridianpress/leadscout/backend/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "leadscout-backend").Logger()

	ctx := context.Background()

	var client ai.Client
	if cfg.GeminiAPIKey == "" {
		client = ai.MockClient{ModelVersion: "mock-v1"}
		logger.Info().Msg("GEMINI_API_KEY not set, using mock AI client")
	} else {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create Gemini client")
		}
		defer func() {
			if err := gemini.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing Gemini client")
			}
		}()
		client = gemini
		logger.Info().Str("model", cfg.GeminiModel).Msg("using Gemini client")
	}

	store := catalog.NewStore()
	ws := workspace.New(client, store, logger)

	router := httpapi.Router(cfg, ws, store, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

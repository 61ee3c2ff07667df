package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"companion-chat/internal/app"
	"companion-chat/internal/config"
	apihttp "companion-chat/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	deps, err := app.Build(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}
	defer deps.Close()

	chatHandler := apihttp.NewChatHandler(logger, deps.Composer)
	healthHandler := apihttp.NewHealthHandler(deps.Sessions)
	router := apihttp.NewRouter(logger, chatHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("emotion_aware", cfg.EmotionAware),
		zap.Bool("support_tools", cfg.SupportToolsEnabled),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

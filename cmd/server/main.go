package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/support-chat/internal/api"
	"github.com/RichardoC/support-chat/internal/config"
	"github.com/RichardoC/support-chat/internal/db"
	"github.com/RichardoC/support-chat/internal/llm"
	"github.com/RichardoC/support-chat/internal/logging"
	"github.com/RichardoC/support-chat/web"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg, logger.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if cfg.LLMAPIKey == "" {
		logger.Warn("GROQ_API_KEY is not set; the provider will reject requests")
	}
	provider := llm.NewClient(llm.ClientConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	llmService := llm.New(provider, store, logger.Named("relay"), cfg.Metadata())

	handler := api.NewHandler(llmService, cfg.LLMProviderName, api.WidgetConfig{
		ShowEmojiPicker: cfg.ShowEmojiPicker,
		AllowFullscreen: cfg.AllowFullscreen,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Routes(web.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("model", cfg.LLMModel))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return multierr.Append(srv.Shutdown(shutdownCtx), store.Close(shutdownCtx))
	})
	return eg.Wait()
}

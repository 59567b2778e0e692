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

	"github.com/rs/zerolog"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/config"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/export"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/handler"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/storage"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/whatsapp"
)

func main() {
	fmt.Println("🎉 Wedding Guest List")
	fmt.Println("=====================")

	// Load configuration
	cfg := config.LoadConfig()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	guestStorage, err := storage.NewStorage(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Error initializing storage")
	}
	defer guestStorage.Close()

	// PDF export stays off when the font cannot be loaded
	var renderer handler.FollowupRenderer
	if pdf, err := export.NewPDFRenderer(cfg.FontPath); err != nil {
		logger.Warn().Err(err).Msg("Follow-up PDF export disabled")
	} else {
		renderer = pdf
	}

	// Initialize WhatsApp service
	var greeter *handler.GreetingSender
	if cfg.WhatsAppEnabled {
		whatsappService, err := connectWhatsApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Error initializing WhatsApp service")
		}
		defer whatsappService.Disconnect()
		greeter = handler.NewGreetingSender(whatsappService, guestStorage)
		fmt.Println("✅ Connected to WhatsApp!")
	}

	guestHandler := handler.NewGuestListHandler(guestStorage, renderer, greeter, &handler.Config{
		DocumentTitle: cfg.DocumentTitle,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      guestHandler.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info().Str("address", cfg.ListenAddr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	fmt.Println("\n\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	fmt.Println("Goodbye! 👋")
}

func connectWhatsApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*whatsapp.Service, error) {
	if err := os.MkdirAll(cfg.WhatsAppDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	service, err := whatsapp.NewService(ctx, &whatsapp.Config{DataDir: cfg.WhatsAppDataDir}, logger)
	if err != nil {
		return nil, err
	}

	fmt.Println("Connecting to WhatsApp...")
	if err := service.Connect(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

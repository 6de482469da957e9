package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-trip-planner/internal/availability"
	"ai-trip-planner/internal/config"
	"ai-trip-planner/internal/database"
	"ai-trip-planner/internal/favorites"
	"ai-trip-planner/internal/llm"
	"ai-trip-planner/internal/metrics"
	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/profile"
	"ai-trip-planner/internal/server"
	"ai-trip-planner/internal/shared"
	"ai-trip-planner/internal/webhook"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var textGen llm.TextGenerator
	switch cfg.LLMProvider {
	case "groq":
		textGen = llm.NewGroqClient(cfg)
	default:
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	tracker := availability.NewTracker(availability.NewProbe(textGen), func(meta shared.AgentMeta) {
		if err := metricsStore.RecordMeta(meta); err != nil {
			log.Printf("failed to record metrics for %s: %v", meta.AgentName, err)
		}
	})

	srv := server.New(server.Options{
		Trips:          planner.NewService(textGen),
		Availability:   tracker,
		Favorites:      favorites.NewRepository(db.SQL),
		Profiles:       profile.NewRepository(db.SQL),
		Metrics:        metricsStore,
		Notifier:       webhook.NewNotifier(cfg.TripWebhookURL),
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second, // generative calls are slow
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

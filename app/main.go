package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geonews/app/api"
	"geonews/app/cfg"
	"geonews/app/cleanup"
	"geonews/app/database"
	"geonews/app/enrich"
	"geonews/app/recap"
	"geonews/app/scraper"
	"geonews/app/sources"
	"geonews/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting GeoNews server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	registry, err := sources.NewLoader(appCfg.SourcesFile).LoadAll()
	if err != nil {
		log.Fatal("Failed to load source registry:", err)
	}
	slog.Info("Loaded source registry", "file", appCfg.SourcesFile, "sources", len(registry))

	eventRepo := database.NewEventRepository(db)
	watermarkRepo := database.NewWatermarkRepository(db)

	enrichClient := enrich.NewClient(appCfg.OpenAIBaseURL, appCfg.OpenAIModel,
		appCfg.OpenAIAPIKey, time.Duration(appCfg.EnrichTimeout)*time.Second)
	if !enrichClient.Enabled() {
		slog.Warn("OPENAI_API_KEY not set, enrichment disabled; entries will be fetched but not stored")
	}

	httpClient := &http.Client{}
	newsScraper := scraper.New(registry, eventRepo, watermarkRepo, enrichClient, httpClient, scraper.Options{
		MaxFirstRunEntries: appCfg.MaxFirstRunEntries,
		FetchTimeout:       30 * time.Second,
		EnrichTimeout:      time.Duration(appCfg.EnrichTimeout) * time.Second,
		UserAgent:          appCfg.UserAgent,
	})

	sweeper := cleanup.NewSweeper(eventRepo)
	recapGenerator := recap.NewGenerator(eventRepo, enrichClient)

	scheduler := tasks.NewScheduler(registry, newsScraper, sweeper)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Scheduler started",
		"workers", appCfg.WorkerCount,
		"scrape_interval", appCfg.ScrapeInterval,
		"cleanup_interval", appCfg.CleanupInterval)

	handler := api.NewHandler(eventRepo, recapGenerator, registry)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

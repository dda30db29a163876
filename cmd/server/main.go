package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/config"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/database"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/scheduler"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	fillRepo := repository.NewFillRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	dayStatRepo := repository.NewDayStatRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	journalService := service.NewJournalService(
		tradeRepo,
		dayStatRepo,
	)
	importService := service.NewImportService(
		fillRepo,
		tradeRepo,
		journalService,
	)
	resolutionService := service.NewResolutionService(
		fillRepo,
		tradeRepo,
		polymarket.NewGammaClient(),
	)
	noteService := service.NewNoteService(
		noteRepo,
		tradeRepo,
	)
	settingsService, err := service.NewSettingsService(settingsRepo, cfg.Auth.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:     systemService,
		Import:     importService,
		Journal:    journalService,
		Resolution: resolutionService,
		Note:       noteService,
		Settings:   settingsService,
	}, cfg)

	// Start the resolution refresh scheduler
	sched := scheduler.New(fillRepo, resolutionService, journalService)
	if err := sched.Start(cfg.Scheduler.CronSpec); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

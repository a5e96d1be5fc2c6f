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

	"orgsite/m/internal/api"
	"orgsite/m/internal/config"
	"orgsite/m/internal/database"
	"orgsite/m/internal/migrations"
	"orgsite/m/internal/repository"
	"orgsite/m/internal/seed"
	"orgsite/m/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.SeedDir != "" {
		if err := seed.Load(context.Background(), repository.NewMembers(db), repository.NewProjects(db), cfg.SeedDir); err != nil {
			log.Printf("unable to seed content from %s: %v", cfg.SeedDir, err)
		}
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	handler := api.New(db, store, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("site backend starting on :%s (db=%s, uploads=%s)", cfg.HTTPPort, cfg.DatabaseDriver, cfg.UploadDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

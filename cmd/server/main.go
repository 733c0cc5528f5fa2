package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceirr/sample-dashboard/internal/api"
	"github.com/ceirr/sample-dashboard/internal/config"
	"github.com/ceirr/sample-dashboard/internal/gate"
	"github.com/ceirr/sample-dashboard/internal/pipeline"
	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
	"github.com/ceirr/sample-dashboard/internal/report"
	"github.com/ceirr/sample-dashboard/internal/source"
)

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  CEIRR Sample Collection Dashboard (cmd/server/main.go)    ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")

	configPath := "config/config.yaml"
	if v := os.Getenv("CEIRR_CONFIG"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactSecrets(cfg.Logging.Redact())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher, err := source.New(ctx, cfg.Source)
	if err != nil {
		log.Fatalf("Failed to initialize source: %v", err)
	}
	switch cfg.Source.Type {
	case config.SourceS3:
		log.Printf("Reading samples from s3://%s/%s", cfg.Source.S3Bucket, cfg.Source.S3Key)
	default:
		log.Printf("Reading samples from sheet %s (retries: %d)", cfg.Source.SheetID, cfg.Source.MaxRetries)
	}

	runner := pipeline.New(fetcher, report.Options{
		Title:     cfg.Report.Title,
		SheetName: cfg.Report.SheetName,
	})

	pages, err := api.NewPageRenderer()
	if err != nil {
		log.Fatalf("Failed to load page templates: %v", err)
	}

	g := gate.New(cfg.Access.Password)
	handlers := api.NewHandlers(runner, g, pages)
	server := api.NewServer(cfg.Server, handlers, g)

	ln, err := server.Listen(server.Addr())
	if err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

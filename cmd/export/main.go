// Command export writes today's sample collection workbook to disk.
//
//	export -config config/config.yaml -out ./reports -password "$CEIRR_ACCESS_PASSWORD"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ceirr/sample-dashboard/internal/config"
	"github.com/ceirr/sample-dashboard/internal/gate"
	"github.com/ceirr/sample-dashboard/internal/pipeline"
	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
	"github.com/ceirr/sample-dashboard/internal/report"
	"github.com/ceirr/sample-dashboard/internal/source"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	outDir := flag.String("out", ".", "directory to write the workbook into")
	password := flag.String("password", os.Getenv("CEIRR_ACCESS_PASSWORD"), "access password")
	flag.Parse()

	if err := run(*configPath, *outDir, *password); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, outDir, password string) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactSecrets(cfg.Logging.Redact())

	if err := gate.New(cfg.Access.Password).Check(password); err != nil {
		return errors.New(gate.DeniedMessage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fetcher, err := source.New(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}

	res, err := pipeline.New(fetcher, report.Options{
		Title:     cfg.Report.Title,
		SheetName: cfg.Report.SheetName,
	}).Run(ctx, time.Now())
	if err != nil {
		return err
	}
	if res.Empty() {
		fmt.Println(pipeline.EmptyNotice)
		return nil
	}

	path, err := writeArtifact(outDir, res.Artifact)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Wrote %d sample(s) to %s\n", len(res.Rows), path)
	return nil
}

func writeArtifact(dir string, a *report.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return path, nil
}

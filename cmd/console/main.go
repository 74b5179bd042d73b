package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"system-exporter/internal/console"
	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/logger"
	"system-exporter/internal/shared/utils"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GlobalConfig

	url := flag.String("url", cfg.Server.URL, "exporter base URL")
	token := flag.String("token", utils.GetEnv("OPERATOR_TOKEN", ""), "operator token")
	logPath := flag.String("log", filepath.Join(cfg.Exporter.OutputDir, "console.log"), "log file")
	flag.Parse()

	// The terminal belongs to the UI, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(*logPath), 0o755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger.InitWithWriter(logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := console.NewApp(console.NewClient(*url, *token), slog.Default())
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Console failed: %v", err)
	}
}

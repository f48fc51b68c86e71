package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agenthands/jsonstudio/internal/config"
	"github.com/agenthands/jsonstudio/internal/core"
	"github.com/agenthands/jsonstudio/internal/logging"
	"github.com/agenthands/jsonstudio/internal/server"
	"github.com/agenthands/jsonstudio/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	gin.SetMode(cfg.Server.Mode)

	studio := core.NewStudio()
	pool := worker.NewPool(studio.Differ, cfg.Diff.Workers, cfg.Diff.QueueSize, logger)
	srv := server.NewServer(studio, pool, logger, cfg.Server.MaxBodyBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Could not load %s, using defaults", cfgPath)
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

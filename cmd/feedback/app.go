package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"feedback-go/internal/config"
	"feedback-go/internal/database"
	"feedback-go/internal/entry"
	logger "feedback-go/internal/logging"
	"feedback-go/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// app holds what every command needs once configuration and the database are up.
type app struct {
	log    *zap.Logger
	conf   *config.Store
	repo   *repository.Repository
	issuer *entry.Issuer
}

func bootstrap(root string) (*app, error) {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	bootLog, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bootstrap logger: %w", err)
	}
	conf, err := config.Load(root, bootLog)
	if err != nil {
		return nil, err
	}
	cfg := conf.Get()

	log, err := logger.Init(root, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &app{
		log:    log,
		conf:   conf,
		repo:   repository.New(db, log),
		issuer: entry.NewIssuer(cfg.Entry.TokenSecret, cfg.Entry.TokenTTL),
	}, nil
}

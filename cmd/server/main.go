// Package main is the entry point for the todo service.
//
// Its job is deliberately small:
//  1. Load configuration (a .env file if present, then environment variables)
//  2. Set up the structured logger
//  3. Hand everything to internal/server and block until shutdown
//
// All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/arshkhan-pathan/todo-service/internal/server"
)

func main() {
	// A .env file is a development convenience; in production the
	// variables come from the real environment and the file is absent.
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env file loaded")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
		port = p
	}

	// JWT_SECRET is the one setting with no usable default — a guessable
	// secret means forgeable tokens. Generate one with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is not set — refusing to start")
		os.Exit(1)
	}

	tokenTTL := 20 * time.Minute
	if ttlStr := os.Getenv("TOKEN_TTL_MINUTES"); ttlStr != "" {
		minutes, err := strconv.Atoi(ttlStr)
		if err != nil || minutes <= 0 {
			logger.Error("invalid TOKEN_TTL_MINUTES value", slog.String("value", ttlStr))
			os.Exit(1)
		}
		tokenTTL = time.Duration(minutes) * time.Minute
	}

	dbPath := "data/todo.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" || dbDriver == "sqlite" {
		// Ensure the data directory exists for the sqlite file.
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				logger.Error("failed to create database directory",
					slog.String("dir", dir),
					slog.String("error", err.Error()),
				)
				os.Exit(1)
			}
		}
	}

	var corsOrigins []string
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	cfg := server.Config{
		Port:        port,
		JWTSecret:   jwtSecret,
		TokenTTL:    tokenTTL,
		DBDriver:    dbDriver,
		DBPath:      dbPath,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		CORSOrigins: corsOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel reads LOG_LEVEL, defaulting to debug.
func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthside/choreboard/internal/database"
	"github.com/hearthside/choreboard/internal/logging"
	"github.com/hearthside/choreboard/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("CHOREBOARD_LOG_LEVEL"))

	port := os.Getenv("CHOREBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("CHOREBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "choreboard.db"
	}

	secret := os.Getenv("CHOREBOARD_SECRET")
	if secret == "" {
		// Tokens stop surviving restarts without a configured secret, which
		// just means parents re-enter the PIN.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Error("generate secret", "error", err)
			os.Exit(1)
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("CHOREBOARD_SECRET not set, using a random per-process secret")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, secret, logger)

	// Prime today's board so the first kiosk request is not the slow one.
	if err := srv.Rollover().EnsureToday(); err != nil {
		logger.Error("initial rollover", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Choreboard running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Expired rate-limit entries accumulate between unlock attempts.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

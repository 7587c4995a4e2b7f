/**
 * @description
 * This is the main entry point for the payout console service. It initializes
 * configuration, the Mural Pay API client, the metrics collector, the session
 * registry, and the HTTP server, wires everything together, and starts the
 * service with graceful shutdown.
 *
 * @dependencies
 * - log, net/http, os/signal: Standard Go libraries.
 * - github.com/joho/godotenv: Local .env loading.
 * - internal/api, internal/app, internal/config: Internal packages.
 * - pkg/metrics, pkg/muralclient: Metrics and the Mural Pay API client.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/muralops/payout-console/internal/api"
	"github.com/muralops/payout-console/internal/app"
	"github.com/muralops/payout-console/internal/config"
	"github.com/muralops/payout-console/pkg/metrics"
	"github.com/muralops/payout-console/pkg/muralclient"
)

func main() {
	// Attempt to load .env file. It is okay if it doesn't exist in production.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found, relying on environment\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config validation failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.MuralTransferAPIKey) == "" {
		log.Println("level=warn component=bootstrap msg=\"transfer api key not configured; payout execution will be rejected upstream\" env=MURAL_TRANSFER_API_KEY")
	}

	log.Printf("level=info component=bootstrap msg=\"starting payout-console\" port=%s", cfg.ServerPort)

	collector := metrics.NewCollector()

	muralClient := muralclient.NewClient(cfg.MuralAPIBaseURL, cfg.MuralAPIKey, cfg.MuralTransferAPIKey)
	muralClient.SetObserver(collector)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := app.NewSessionManager(muralClient, collector, collector, sessionTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartSweeper(ctx, time.Minute)

	handlers := api.NewConsoleHandlers(sessions)
	router := api.ConsoleRoutes(handlers, sessions, collector.Handler())

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

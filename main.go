package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/salesboard/analytics/config"
	"github.com/salesboard/analytics/export"
	"github.com/salesboard/analytics/routes"
	"github.com/salesboard/analytics/utils"
	"github.com/salesboard/analytics/websocket"
)

func main() {
	modePtr := flag.String("mode", "serve", "Run mode: serve, scheduled or once")
	outPtr := flag.String("out", "", "Snapshot output path (only for mode once)")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.Verbose)

	log.Println("Starting insight engine in mode:", *modePtr)

	switch *modePtr {
	case "once":
		runOnce(cfg, logger, *outPtr)
	case "scheduled":
		runScheduled(cfg, logger)
	case "serve":
		runServe(cfg, logger)
	default:
		log.Println("Unknown mode:", *modePtr)
		log.Println("Available modes: serve, scheduled, once")
		os.Exit(1)
	}
}

// runOnce executes a single analysis run and optionally writes the
// result snapshot to disk.
func runOnce(cfg config.Config, logger *utils.Logger, out string) {
	runner := NewRunner(cfg, logger, nil)

	result, err := runner.RunNow()
	if err != nil {
		log.Fatalf("Analysis run failed: %v", err)
	}

	if out != "" {
		if err := export.WriteFile(out, result); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		logger.Info("Snapshot written to %s", out)
	}
}

// runScheduled keeps re-running the analysis on the configured
// interval until interrupted.
func runScheduled(cfg config.Config, logger *utils.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Shutdown signal received, stopping runner...")
		cancel()
	}()

	runner := NewRunner(cfg, logger, nil)
	if _, err := runner.RunNow(); err != nil {
		logger.Error("Initial run failed: %v", err)
	}
	runner.StartScheduler(ctx)
}

// runServe exposes the results over HTTP and WebSocket while the
// scheduler refreshes them in the background.
func runServe(cfg config.Config, logger *utils.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsManager := websocket.NewManager(logger)
	go wsManager.Run()

	runner := NewRunner(cfg, logger, wsManager)

	// First run happens off the main path so the API comes up
	// immediately; sections answer 503 until it completes.
	go func() {
		if _, err := runner.RunNow(); err != nil {
			logger.Error("Initial run failed: %v", err)
		}
	}()
	go runner.StartScheduler(ctx)

	router := mux.NewRouter()
	routes.SetupRoutes(router, runner, wsManager)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutdown signal received, draining connections...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}
	log.Println("Server stopped")
}

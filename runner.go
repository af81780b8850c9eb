package main

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/salesboard/analytics/config"
	"github.com/salesboard/analytics/engine"
	"github.com/salesboard/analytics/loader"
	"github.com/salesboard/analytics/utils"
	"github.com/salesboard/analytics/websocket"
)

// Runner owns the analysis lifecycle: it loads the dataset, executes
// runs, keeps the latest result for the API, and notifies dashboard
// subscribers after each completion.
type Runner struct {
	cfg      config.Config
	logger   *utils.Logger
	analyzer *engine.Analyzer
	ws       *websocket.Manager

	// runMu serializes runs; mu guards the published result.
	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *engine.Result
}

// NewRunner creates a runner. The WebSocket manager may be nil for
// modes without a server.
func NewRunner(cfg config.Config, logger *utils.Logger, ws *websocket.Manager) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		analyzer: engine.NewAnalyzer(logger, cfg.ForecastMonths),
		ws:       ws,
	}
}

// Latest returns the most recent completed result, nil before the
// first run finishes.
func (r *Runner) Latest() *engine.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// RunNow executes one full analysis run. Concurrent callers queue up;
// the dataset is re-read every run so source changes are picked up
// without a restart.
func (r *Runner) RunNow() (*engine.Result, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	src, err := loader.NewFromConfig(r.cfg, r.logger)
	if err != nil {
		return nil, err
	}
	registry, err := src.Load()
	if err != nil {
		r.logger.Error("Dataset load failed: %v", err)
		return nil, err
	}

	result, err := r.analyzer.Run(registry)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.latest = result
	r.mu.Unlock()

	if r.ws != nil {
		r.ws.NotifyRunCompleted(result.RunID, result.GeneratedAt,
			result.Records, len(result.Recommendations))
	}
	return result, nil
}

// StartScheduler runs the analysis on the configured interval until
// the context is cancelled.
func (r *Runner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Starting analysis scheduler with interval %v", r.cfg.RunInterval)

	_, err := scheduler.Every(r.cfg.RunInterval).Do(func() {
		if _, err := r.RunNow(); err != nil {
			r.logger.Error("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		r.logger.Error("Failed to configure scheduler: %v", err)
		return
	}

	scheduler.StartAsync()

	<-ctx.Done()

	scheduler.Stop()
	r.logger.Info("Analysis scheduler stopped")
}

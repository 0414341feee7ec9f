// Package workers contains background workers for the campaign domain
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DueSweeper executes campaigns whose scheduled time has passed
type DueSweeper interface {
	SweepDue(ctx context.Context, now time.Time) (int, error)
}

// SweeperWorker periodically executes due campaigns that missed their trigger
type SweeperWorker struct {
	sweeper  DueSweeper
	interval time.Duration
	logger   zerolog.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSweeperWorker creates a new due-campaign sweeper
func NewSweeperWorker(sweeper DueSweeper, interval time.Duration, logger zerolog.Logger) *SweeperWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SweeperWorker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the sweep loop
func (w *SweeperWorker) Start() {
	w.logger.Info().Dur("interval", w.interval).Msg("Starting campaign sweeper")

	w.wg.Add(1)
	go w.run()
}

// Stop stops the sweep loop and waits for a running sweep
func (w *SweeperWorker) Stop() {
	w.logger.Info().Msg("Stopping campaign sweeper")

	w.cancel()
	close(w.done)
	w.wg.Wait()

	w.logger.Info().Msg("Campaign sweeper stopped")
}

func (w *SweeperWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SweeperWorker) sweep() {
	n, err := w.sweeper.SweepDue(w.ctx, time.Now().UTC())
	if err != nil {
		if w.ctx.Err() != nil {
			w.logger.Warn().Err(err).Msg("Campaign sweep cancelled")
		} else {
			w.logger.Error().Err(err).Msg("Campaign sweep failed")
		}
		return
	}

	w.logger.Debug().Int("executed", n).Msg("Campaign sweep completed")
}

// Package workers contains background workers for the inbound domain
package workers

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/internal/domain/inbound/deps"
)

// ErrDispatcherStopped is returned for updates arriving during shutdown
var ErrDispatcherStopped = errors.New("dispatcher stopped")

// LocalDispatcher processes every update in its own goroutine inside this process
type LocalDispatcher struct {
	consumer deps.UpdateConsumer
	logger   zerolog.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewLocalDispatcher creates an in-process dispatcher
func NewLocalDispatcher(consumer deps.UpdateConsumer, logger zerolog.Logger) *LocalDispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &LocalDispatcher{
		consumer: consumer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Dispatch starts processing and returns immediately
func (d *LocalDispatcher) Dispatch(_ context.Context, botID string, raw []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.consumer.Consume(d.ctx, botID, raw)
	}()
	return nil
}

// Stop rejects new updates and waits for in-flight ones until ctx expires
func (d *LocalDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	defer d.cancel()

	select {
	case <-done:
		d.logger.Info().Msg("Local dispatcher drained")
		return nil
	case <-ctx.Done():
		d.logger.Warn().Msg("Local dispatcher stopped with updates in flight")
		return ctx.Err()
	}
}

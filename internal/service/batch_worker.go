package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// BatchWorker runs the GSPPI batch on a fixed interval. At most one batch
// is in flight; a tick that finds one still running is skipped.
type BatchWorker struct {
	batch    BatchService
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewBatchWorker creates a new BatchWorker.
func NewBatchWorker(batch BatchService, interval time.Duration, logger *zap.Logger) *BatchWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchWorker{
		batch:    batch,
		interval: interval,
		timeout:  30 * time.Minute,
		logger:   logger,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until the
// in-flight batch, if any, has finished.
func (w *BatchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("batchWorker: started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("batchWorker: shutting down, waiting for in-flight batch")
			w.wg.Wait()
			w.logger.Info("batchWorker: shutdown complete")
			return
		case <-ticker.C:
			if !w.running.CompareAndSwap(false, true) {
				w.logger.Debug("batchWorker: previous batch still running, skipping tick")
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer w.running.Store(false)

				// A fresh context lets an in-flight batch finish during shutdown.
				runCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
				defer cancel()

				if _, err := w.batch.Run(runCtx); err != nil {
					w.logger.Error("batchWorker: batch failed", zap.Error(err))
				}
			}()
		}
	}
}

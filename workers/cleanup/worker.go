// Package cleanup sweeps expired session rows so revoked and stale tokens
// do not accumulate.
package cleanup

import (
	"sync"
	"time"

	"github.com/mindpath-app/mindpath/db"
	"github.com/mindpath-app/mindpath/log"
)

// DefaultInterval is how often the sweep runs
const DefaultInterval = time.Hour

// Worker periodically deletes expired sessions
type Worker struct {
	db       *db.DB
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a cleanup worker. A zero interval uses DefaultInterval.
func NewWorker(database *db.DB, interval time.Duration) *Worker {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Worker{
		db:       database,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (w *Worker) Start() {
	log.Info().Dur("interval", w.interval).Msg("starting session cleanup worker")

	w.wg.Add(1)
	go w.loop()
}

// Stop stops the worker and waits for the loop to exit
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Info().Msg("session cleanup worker stopped")
}

func (w *Worker) loop() {
	defer w.wg.Done()

	// Sweep once at startup, then on the interval
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

func (w *Worker) sweep() {
	deleted, err := w.db.DeleteExpiredSessions()
	if err != nil {
		log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("expired sessions removed")
	}
}

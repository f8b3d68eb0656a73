package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// DefaultSweepInterval is how often the background sweep runs.
const DefaultSweepInterval = time.Hour

// defaultSweepTimeout bounds a single scheduled run.
const defaultSweepTimeout = 5 * time.Minute

// SweepObserver receives the outcome of every sweep run.
type SweepObserver interface {
	ObserveSweep(result domain.SweepResult, elapsed time.Duration, err error)
}

// Sweeper periodically garbage-collects a Store.
type Sweeper struct {
	store    *Store
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	observer SweepObserver

	// runMu serialises scheduled and on-demand runs.
	runMu sync.Mutex

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepLogger sets the logger.
func WithSweepLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweepObserver registers an observer for run results.
func WithSweepObserver(o SweepObserver) SweeperOption {
	return func(s *Sweeper) {
		s.observer = o
	}
}

// WithSweepTimeout bounds each scheduled run.
func WithSweepTimeout(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSweeper creates a sweeper for store. A non-positive interval falls back
// to DefaultSweepInterval.
func NewSweeper(store *Store, interval time.Duration, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	s := &Sweeper{
		store:    store,
		interval: interval,
		timeout:  defaultSweepTimeout,
		logger:   slog.Default(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the background loop. Calling it more than once has no
// effect.
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		s.runMu.Lock()
		s.started = true
		s.runMu.Unlock()

		s.logger.Info("sweeper started", "interval", s.interval)
		go s.loop()
	})
}

func (s *Sweeper) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// A run in progress at shutdown is allowed to finish, so it does
			// not inherit stopCh.
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			_, _ = s.RunOnce(ctx)
			cancel()

		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one sweep immediately.
func (s *Sweeper) RunOnce(ctx context.Context) (domain.SweepResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	result, err := s.store.Sweep(ctx)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Warn("sweep interrupted",
			"error", err,
			"expired", result.ExpiredMessages,
			"acked", result.AckedMessages,
			"removed_vaults", result.RemovedVaults,
		)
	} else {
		s.logger.Info("sweep completed",
			"expired", result.ExpiredMessages,
			"acked", result.AckedMessages,
			"removed_vaults", result.RemovedVaults,
			"duration", elapsed,
		)
	}

	if s.observer != nil {
		s.observer.ObserveSweep(result, elapsed, err)
	}

	return result, err
}

// Close stops scheduling new runs and waits for the loop, including any run
// in flight, to exit.
func (s *Sweeper) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	s.runMu.Lock()
	started := s.started
	s.runMu.Unlock()

	if started {
		<-s.doneCh
	}
	s.logger.Info("sweeper stopped")
	return nil
}

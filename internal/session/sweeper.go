package session

import (
	"context"
	"time"

	"github.com/pulsefit/gymchat/pkg/logging"
)

// sweepable is satisfied by stores that can expire idle sessions locally.
// RedisStore expires via key TTLs and needs no sweeper.
type sweepable interface {
	Sweep() int
}

// Sweeper periodically evicts idle sessions from a store.
type Sweeper struct {
	store    sweepable
	interval time.Duration
	logger   *logging.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval overrides how often the sweep runs.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.interval = d }
}

// WithSweeperLogger overrides the logger.
func WithSweeperLogger(l *logging.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = l }
}

// NewSweeper builds a sweeper for store.
func NewSweeper(store sweepable, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: DefaultSweepInterval,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.logger.Info("expired sessions removed", "count", removed)
			}
		}
	}
}

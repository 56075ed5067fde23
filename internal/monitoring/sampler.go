package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/resilience"
)

// Sizer reports how many entries a store holds.
type Sizer interface {
	Len() int
}

// Sampler periodically copies cache size and breaker states into gauges.
type Sampler struct {
	cache    Sizer
	breakers []*resilience.CircuitBreaker
	interval time.Duration
}

// NewSampler creates a sampler. A non-positive interval means 15 seconds.
func NewSampler(cache Sizer, breakers []*resilience.CircuitBreaker, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Sampler{cache: cache, breakers: breakers, interval: interval}
}

// Run samples until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "monitoring.sampler"))
	log.Debug("starting metrics sampler", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sample()
	for {
		select {
		case <-ctx.Done():
			log.Debug("metrics sampler stopped")
			return
		case <-ticker.C:
			s.Sample()
		}
	}
}

// Sample records the current values once.
func (s *Sampler) Sample() {
	if s.cache != nil {
		CacheEntries.Set(float64(s.cache.Len()))
	}
	for _, cb := range s.breakers {
		if cb == nil {
			continue
		}
		BreakerState.WithLabelValues(cb.Name()).Set(float64(cb.State()))
	}
}

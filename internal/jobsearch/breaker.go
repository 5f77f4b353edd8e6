package jobsearch

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"github.com/sony/gobreaker"
)

// BreakerProvider размыкается после maxFailures подряд и отвечает ошибкой
// без обращения к провайдеру. Повторов нет.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerProvider(next Provider, maxFailures uint32, openTimeout time.Duration) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (p *BreakerProvider) Name() string { return p.next.Name() }

func (p *BreakerProvider) Search(ctx context.Context, q Query) ([]models.ExternalListing, error) {
	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.next.Search(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.ExternalListing), nil
}

func (p *BreakerProvider) State() gobreaker.State {
	return p.cb.State()
}

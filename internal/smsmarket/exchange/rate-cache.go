package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sms-market/pkg/logging"
	"sms-market/pkg/threadsafe"
)

// Source looks up the current rate for the pair this cache serves.
type Source interface {
	Rate(ctx context.Context) (decimal.Decimal, error)
}

type Config struct {
	TTL          time.Duration
	FallbackRate decimal.Decimal
}

type slot struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// RateCache is a single-slot cache for the one currency pair in use.
// Concurrent refreshes are tolerated: the worst case is a redundant
// fetch, and the slot itself is guarded.
type RateCache struct {
	primary  Source
	fallback Source
	now      func() time.Time
	slot     *threadsafe.Value[slot]
	logger   *logging.ZapLogger
	cfg      Config
}

func NewRateCache(
	cfg Config,
	primary Source,
	fallback Source,
	logger *logging.ZapLogger,
) *RateCache {
	return &RateCache{
		primary:  primary,
		fallback: fallback,
		now:      time.Now,
		slot:     threadsafe.NewValue(slot{}),
		logger:   logger,
		cfg:      cfg,
	}
}

// Rate returns a usable rate, never an error: cached while younger than
// the TTL, then primary source, then fallback source, then the
// hard-coded constant. Staleness is traded for availability.
func (c *RateCache) Rate(ctx context.Context) decimal.Decimal {
	current := c.slot.Get()
	if !current.fetchedAt.IsZero() && c.now().Sub(current.fetchedAt) < c.cfg.TTL {
		return current.rate
	}

	rate, err := c.primary.Rate(ctx)
	if err != nil {
		c.logger.WarnCtx(ctx, "primary rate source failed", zap.Error(err))
		rate, err = c.fallback.Rate(ctx)
	}
	if err != nil {
		c.logger.ErrorCtx(ctx, "all rate sources failed, using fallback constant", zap.Error(err))
		if !current.fetchedAt.IsZero() {
			return current.rate
		}
		return c.cfg.FallbackRate
	}

	// A concurrent refresh may have stored a fresher slot while this
	// fetch was in flight; only a still-stale slot gets overwritten.
	c.slot.SetIf(slot{rate: rate, fetchedAt: c.now()}, func(current slot) bool {
		return current.fetchedAt.IsZero() || c.now().Sub(current.fetchedAt) >= c.cfg.TTL
	})
	return rate
}

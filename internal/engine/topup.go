package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/metrics"
	"github.com/Castaway-Media/castaway/internal/model"
)

// RunTopUp keeps every auto channel's future coverage above the low-water
// mark, sweeping on a fixed period until ctx is cancelled. One failing
// channel never blocks the others; it is logged and retried next period.
func (e *Engine) RunTopUp(ctx context.Context, interval time.Duration) {
	log.Info().
		Dur("interval", interval).
		Dur("low_water", e.lowWater).
		Dur("high_water", e.highWater).
		Msg("topup: scheduler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// first sweep immediately so a fresh deployment has coverage before the
	// first tick
	e.TopUpOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("topup: scheduler stopped")
			return
		case <-ticker.C:
			e.TopUpOnce(ctx)
		}
	}
}

// TopUpOnce performs one sweep over all enabled auto channels. Idempotent:
// when coverage is already above the low-water mark the coverage check
// short-circuits and no build runs.
func (e *Engine) TopUpOnce(ctx context.Context) {
	channels, err := e.store.ListAutoChannels(ctx)
	if err != nil {
		log.Error().Err(err).Msg("topup: listing channels failed")
		return
	}

	now := e.now()
	for i := range channels {
		if ctx.Err() != nil {
			return
		}
		e.topUpChannel(ctx, &channels[i], now)
	}

	if pruned, err := e.store.PruneEntriesBefore(ctx, now.Add(-e.retention)); err == nil && pruned > 0 {
		metrics.EntriesPruned.Add(float64(pruned))
		log.Info().Int64("pruned", pruned).Msg("topup: retention prune")
	}

	metrics.TopUpSweeps.Inc()
}

func (e *Engine) topUpChannel(ctx context.Context, ch *model.Channel, now time.Time) {
	lastEnd, err := e.store.LastEntryEnd(ctx, ch.ID)
	if err != nil {
		log.Error().Err(err).Int("channel_id", ch.ID).Msg("topup: coverage check failed")
		return
	}

	// a channel newly switched into auto mode has no entries yet: coverage 0
	coverage := time.Duration(0)
	windowStart := now
	if lastEnd != nil && lastEnd.After(now) {
		coverage = lastEnd.Sub(now)
		windowStart = *lastEnd
	}
	metrics.CoverageHours.WithLabelValues(strconv.Itoa(ch.ID)).Set(coverage.Hours())

	if coverage >= e.lowWater {
		return
	}

	created, err := e.Build(ctx, ch, windowStart, now.Add(e.highWater), false)
	if err != nil {
		// logged and retried on the next period, never escalated
		log.Error().Err(err).
			Int("channel_id", ch.ID).
			Str("channel", ch.Name).
			Msg("topup: build failed")
		return
	}
	log.Info().
		Int("channel_id", ch.ID).
		Int("entries", created).
		Dur("had_coverage", coverage).
		Msg("topup: channel extended")
}

// Package engine implements schedule generation and playout resolution for
// virtual channels: candidate selection, gap-free timeline construction,
// rolling top-up, and point-in-time resolution.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/db"
	"github.com/Castaway-Media/castaway/internal/model"
	"github.com/Castaway-Media/castaway/internal/recency"
)

// Options tune the engine. Zero values fall back to defaults; Now and Seed
// exist so tests can fix the clock and the selection outcome.
type Options struct {
	LowWaterMark  time.Duration
	HighWaterMark time.Duration
	RecencyWindow time.Duration
	Retention     time.Duration

	Now  func() time.Time
	Seed func() int64
}

type Engine struct {
	store   db.Store
	catalog catalog.Client
	recency recency.Store
	locks   *buildLocks

	lowWater      time.Duration
	highWater     time.Duration
	recencyWindow time.Duration
	retention     time.Duration

	now  func() time.Time
	seed func() int64
}

func New(store db.Store, cat catalog.Client, rec recency.Store, opts Options) *Engine {
	e := &Engine{
		store:         store,
		catalog:       cat,
		recency:       rec,
		locks:         newBuildLocks(),
		lowWater:      opts.LowWaterMark,
		highWater:     opts.HighWaterMark,
		recencyWindow: opts.RecencyWindow,
		retention:     opts.Retention,
		now:           opts.Now,
		seed:          opts.Seed,
	}
	if e.lowWater <= 0 {
		e.lowWater = 24 * time.Hour
	}
	if e.highWater <= 0 {
		e.highWater = 72 * time.Hour
	}
	if e.recencyWindow <= 0 {
		e.recencyWindow = 6 * time.Hour
	}
	if e.retention <= 0 {
		e.retention = 14 * 24 * time.Hour
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	if e.seed == nil {
		e.seed = func() int64 { return time.Now().UnixNano() }
	}
	return e
}

// Schedule returns the channel's entries overlapping [from, to).
func (e *Engine) Schedule(ctx context.Context, channelID int, from, to time.Time) ([]model.ScheduleEntry, error) {
	ch, err := e.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNotFound
	}
	return e.store.ListEntriesInRange(ctx, channelID, from, to)
}

// GenerateSchedule validates the request and builds days of schedule starting
// now. Returns the number of entries created.
func (e *Engine) GenerateSchedule(ctx context.Context, channelID int, days int, reset bool) (int, error) {
	if days < 1 {
		return 0, &ValidationError{Field: "days", Reason: "must be at least 1"}
	}
	ch, err := e.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if ch == nil {
		return 0, ErrNotFound
	}
	if ch.Name == "" {
		return 0, &ValidationError{Field: "name", Reason: "channel has no name"}
	}
	sources, err := e.store.ListLibrarySources(ctx, channelID)
	if err != nil {
		return 0, err
	}
	collections, err := e.store.ListCollectionSources(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if len(sources) == 0 && len(collections) == 0 {
		return 0, &ValidationError{Field: "library_sources", Reason: "channel has no bound libraries or collections"}
	}

	start := e.now()
	return e.Build(ctx, ch, start, start.Add(time.Duration(days)*24*time.Hour), reset)
}

// newRand returns a rand source for one build. Each build gets its own so
// parallel builds never contend, and tests pin the seed.
func (e *Engine) newRand() *rand.Rand {
	return rand.New(rand.NewSource(e.seed()))
}

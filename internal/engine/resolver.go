package engine

import (
	"context"
	"sort"
	"time"

	"github.com/Castaway-Media/castaway/internal/model"
)

// resolveBracket bounds how far back an active entry's start can lie. No
// single item runs anywhere near this long, so loading [at-bracket, at]
// always captures the candidate entry.
const resolveBracket = 48 * time.Hour

// Resolve returns the entry playing on the channel at the given instant plus
// the elapsed offset, or (nil, nil) when nothing is scheduled — a gap is a
// valid outcome, not an error. Boundary semantics: start inclusive, end
// exclusive, so an entry ending exactly at the instant never matches.
func (e *Engine) Resolve(ctx context.Context, channelID int, at time.Time) (*model.NowPlaying, error) {
	ch, err := e.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNotFound
	}

	at = at.UTC()
	entries, err := e.store.ListEntriesInRange(ctx, channelID, at.Add(-resolveBracket), at.Add(time.Second))
	if err != nil {
		return nil, err
	}

	// entries are sorted by start and non-overlapping, so end times are
	// sorted too: binary search for the first entry ending after `at`
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].EndTime.After(at)
	})
	if idx == len(entries) || !entries[idx].Covers(at) {
		return nil, nil
	}

	entry := entries[idx]
	return &model.NowPlaying{
		Entry:  entry,
		Offset: int(at.Sub(entry.StartTime) / time.Second),
	}, nil
}

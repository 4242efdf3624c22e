package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castaway-Media/castaway/internal/model"
)

// two adjacent hour-long entries at 10:00 and 11:00
func seedResolverChannel(store *memStore) {
	store.addChannel(autoChannel(1))
	ten := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	eleven := ten.Add(time.Hour)
	store.entries[1] = []model.ScheduleEntry{
		{ID: 1, ChannelID: 1, Title: "First Hour", MediaItemID: "m1", ItemKind: model.ItemMovie,
			Genres: "[]", StartTime: ten, EndTime: eleven, Duration: 3600},
		{ID: 2, ChannelID: 1, Title: "Second Hour", MediaItemID: "m2", ItemKind: model.ItemMovie,
			Genres: "[]", StartTime: eleven, EndTime: eleven.Add(time.Hour), Duration: 3600},
	}
}

func TestResolveBoundarySemantics(t *testing.T) {
	store := newMemStore()
	clock := &testClock{now: testAnchor}
	eng := newTestEngine(store, newFakeCatalog(), clock)
	seedResolverChannel(store)

	ctx := context.Background()
	ten := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// start is inclusive: offset 0
	now, err := eng.Resolve(ctx, 1, ten)
	require.NoError(t, err)
	require.NotNil(t, now)
	assert.Equal(t, "First Hour", now.Entry.Title)
	assert.Equal(t, 0, now.Offset)

	// one second before the boundary still matches the first entry
	now, err = eng.Resolve(ctx, 1, ten.Add(59*time.Minute+59*time.Second))
	require.NoError(t, err)
	require.NotNil(t, now)
	assert.Equal(t, "First Hour", now.Entry.Title)
	assert.Equal(t, 3599, now.Offset)

	// end is exclusive: exactly 11:00 matches the next entry, never the first
	now, err = eng.Resolve(ctx, 1, ten.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, now)
	assert.Equal(t, "Second Hour", now.Entry.Title)
	assert.Equal(t, 0, now.Offset)
}

func TestResolveGapReturnsNothing(t *testing.T) {
	store := newMemStore()
	clock := &testClock{now: testAnchor}
	eng := newTestEngine(store, newFakeCatalog(), clock)
	seedResolverChannel(store)

	ctx := context.Background()

	// before the first entry
	now, err := eng.Resolve(ctx, 1, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, now, "a gap is a valid outcome, not an error")

	// after the last entry ends (end exclusive)
	now, err = eng.Resolve(ctx, 1, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, now)
}

func TestResolveUnknownChannel(t *testing.T) {
	store := newMemStore()
	clock := &testClock{now: testAnchor}
	eng := newTestEngine(store, newFakeCatalog(), clock)

	_, err := eng.Resolve(context.Background(), 42, testAnchor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveOffsetBounds(t *testing.T) {
	store := newMemStore()
	clock := &testClock{now: testAnchor}
	eng := newTestEngine(store, newFakeCatalog(), clock)
	seedResolverChannel(store)

	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, time.Second, 30 * time.Minute, 59*time.Minute + 59*time.Second} {
		now, err := eng.Resolve(ctx, 1, start.Add(offset))
		require.NoError(t, err)
		require.NotNil(t, now)
		assert.GreaterOrEqual(t, now.Offset, 0)
		assert.Less(t, now.Offset, now.Entry.Duration)
	}
}

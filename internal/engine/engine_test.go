package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/model"
	"github.com/Castaway-Media/castaway/internal/recency"
)

// memStore is an in-memory db.Store with the same semantics as the Postgres
// implementation, so engine tests run without a database.
type memStore struct {
	mu          sync.Mutex
	channels    map[int]*model.Channel
	sources     map[int][]model.LibrarySource
	collections map[int][]model.CollectionSource
	filters     map[int][]model.GenreFilter
	entries     map[int][]model.ScheduleEntry
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		channels:    make(map[int]*model.Channel),
		sources:     make(map[int][]model.LibrarySource),
		collections: make(map[int][]model.CollectionSource),
		filters:     make(map[int][]model.GenreFilter),
		entries:     make(map[int][]model.ScheduleEntry),
	}
}

func (s *memStore) addChannel(ch model.Channel) *model.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := ch
	s.channels[c.ID] = &c
	return &c
}

func (s *memStore) GetChannelByID(_ context.Context, id int) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil, nil
	}
	c := *ch
	return &c, nil
}

func (s *memStore) ListChannels(_ context.Context) ([]model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]model.Channel, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.channels[id])
	}
	return out, nil
}

func (s *memStore) ListAutoChannels(ctx context.Context) ([]model.Channel, error) {
	all, _ := s.ListChannels(ctx)
	out := make([]model.Channel, 0, len(all))
	for _, ch := range all {
		if ch.Auto() {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *memStore) ListLibrarySources(_ context.Context, channelID int) ([]model.LibrarySource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LibrarySource(nil), s.sources[channelID]...), nil
}

func (s *memStore) ListCollectionSources(_ context.Context, channelID int) ([]model.CollectionSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CollectionSource(nil), s.collections[channelID]...), nil
}

func (s *memStore) ListGenreFilters(_ context.Context, channelID int) ([]model.GenreFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.GenreFilter(nil), s.filters[channelID]...), nil
}

func (s *memStore) ListEntriesInRange(_ context.Context, channelID int, from, to time.Time) ([]model.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ScheduleEntry
	for _, e := range s.entries[channelID] {
		if e.StartTime.Before(to) && e.EndTime.After(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memStore) LastEntryEnd(_ context.Context, channelID int) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last *time.Time
	for _, e := range s.entries[channelID] {
		end := e.EndTime
		if last == nil || end.After(*last) {
			last = &end
		}
	}
	return last, nil
}

func (s *memStore) ReplaceEntries(_ context.Context, channelID int, entries []model.ScheduleEntry, resetAfter *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[channelID]
	if resetAfter != nil {
		var retained []model.ScheduleEntry
		for _, e := range kept {
			if !e.EndTime.After(*resetAfter) {
				retained = append(retained, e)
			}
		}
		kept = retained
	}
	for _, e := range entries {
		s.nextID++
		e.ID = s.nextID
		e.ChannelID = channelID
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].StartTime.Before(kept[j].StartTime) })
	s.entries[channelID] = kept
	if len(entries) > 0 {
		end := entries[len(entries)-1].EndTime
		s.channels[channelID].GeneratedThrough = &end
	}
	return nil
}

func (s *memStore) PruneEntriesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pruned int64
	for id, entries := range s.entries {
		var kept []model.ScheduleEntry
		for _, e := range entries {
			if e.EndTime.Before(cutoff) {
				pruned++
				continue
			}
			kept = append(kept, e)
		}
		s.entries[id] = kept
	}
	return pruned, nil
}

// fakeCatalog serves configured items per parent id (library or collection),
// honoring the kind and upstream genre narrowing a real catalog performs.
type fakeCatalog struct {
	items    map[string][]catalog.Item
	err      error
	errByLib map[string]error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		items:    make(map[string][]catalog.Item),
		errByLib: make(map[string]error),
	}
}

func (f *fakeCatalog) ListItems(_ context.Context, libraryID string, kinds []string, genres []string) ([]catalog.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := f.errByLib[libraryID]; err != nil {
		return nil, err
	}
	allowKind := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowKind[k] = true
	}
	var out []catalog.Item
	for _, it := range f.items[libraryID] {
		if len(kinds) > 0 && !allowKind[it.Kind] {
			continue
		}
		if len(genres) > 0 && !hasAnyGenre(it, genres) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func hasAnyGenre(it catalog.Item, genres []string) bool {
	for _, want := range genres {
		for _, g := range it.Genres {
			if g == want {
				return true
			}
		}
	}
	return false
}

func (f *fakeCatalog) ListGenres(_ context.Context, libraryID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, it := range f.items[libraryID] {
		for _, g := range it.Genres {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCatalog) GetItem(_ context.Context, itemID string) (*catalog.Item, error) {
	for _, items := range f.items {
		for _, it := range items {
			if it.ID == itemID {
				found := it
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCatalog) StreamURL(itemID string) string {
	return "http://catalog.test/videos/" + itemID + "/stream"
}

// testClock is a controllable now() for deterministic builds.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testAnchor = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestEngine wires an engine over the in-memory fakes with a fixed clock
// and seed.
func newTestEngine(store *memStore, cat *fakeCatalog, clock *testClock) *Engine {
	return New(store, cat, recency.NewMemory(), Options{
		LowWaterMark:  24 * time.Hour,
		HighWaterMark: 72 * time.Hour,
		RecencyWindow: 6 * time.Hour,
		Retention:     14 * 24 * time.Hour,
		Now:           clock.Now,
		Seed:          func() int64 { return 42 },
	})
}

func movie(id, name string, runtime int, genres ...string) catalog.Item {
	return catalog.Item{
		ID:        id,
		Name:      name,
		Kind:      model.ItemMovie,
		LibraryID: "lib-movies",
		Genres:    genres,
		Runtime:   runtime,
	}
}

func episode(id, name, series string, season, ep, runtime int, genres ...string) catalog.Item {
	return catalog.Item{
		ID:         id,
		Name:       name,
		Kind:       model.ItemEpisode,
		LibraryID:  "lib-shows",
		Genres:     genres,
		Runtime:    runtime,
		SeriesName: series,
		Season:     season,
		Episode:    ep,
	}
}

func autoChannel(id int) model.Channel {
	return model.Channel{
		ID:           id,
		Name:         "Test Channel",
		Enabled:      true,
		ChannelType:  "video",
		ScheduleMode: model.ScheduleModeAutoGenre,
	}
}

func bindMovieLibrary(store *memStore, channelID int) {
	store.sources[channelID] = append(store.sources[channelID], model.LibrarySource{
		ID: len(store.sources[channelID]) + 1, ChannelID: channelID,
		LibraryID: "lib-movies", LibraryName: "Movies", CollectionKind: model.CollectionMovies,
	})
}

func bindCollection(store *memStore, channelID int, collectionID, name string) {
	store.collections[channelID] = append(store.collections[channelID], model.CollectionSource{
		ID: len(store.collections[channelID]) + 1, ChannelID: channelID,
		CollectionID: collectionID, CollectionName: name,
	})
}

func bindShowLibrary(store *memStore, channelID int) {
	store.sources[channelID] = append(store.sources[channelID], model.LibrarySource{
		ID: len(store.sources[channelID]) + 1, ChannelID: channelID,
		LibraryID: "lib-shows", LibraryName: "Shows", CollectionKind: model.CollectionTVShows,
	})
}

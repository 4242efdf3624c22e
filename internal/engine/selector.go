package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/model"
)

// SelectPool builds the channel's eligible candidate pool: every bound
// library queried within its collection kind, every bound collection expanded
// to its playable members, genre filters applied, items deduplicated across
// sources, and recently played items dropped. Pool order is the catalog's
// stable sort order; all randomness lives in the picker.
func (e *Engine) SelectPool(ctx context.Context, channel *model.Channel) ([]catalog.Item, error) {
	sources, err := e.store.ListLibrarySources(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	collections, err := e.store.ListCollectionSources(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	filters, err := e.store.ListGenreFilters(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	var includes, excludes []model.GenreFilter
	for _, f := range filters {
		if f.Polarity == model.PolarityExclude {
			excludes = append(excludes, f)
		} else {
			includes = append(includes, f)
		}
	}

	seen := make(map[string]bool)
	var pool []catalog.Item
	for _, src := range sources {
		items, err := e.fetchSource(ctx, src, includes)
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", src.LibraryID, err)
		}
		for _, it := range items {
			if seen[it.ID] {
				continue
			}
			if !admit(it, includes, excludes) {
				continue
			}
			seen[it.ID] = true
			if it.LibraryID == "" {
				it.LibraryID = src.LibraryID
			}
			pool = append(pool, it)
		}
	}

	// Collection members join the pool through the same filters. One broken
	// collection is logged and skipped; the remaining sources still build.
	for _, src := range collections {
		items, err := e.catalog.ListItems(ctx, src.CollectionID, nil, nil)
		if err != nil {
			log.Warn().Err(err).
				Int("channel_id", channel.ID).
				Str("collection_id", src.CollectionID).
				Msg("selector: collection resolve failed, skipping")
			continue
		}
		for _, it := range items {
			if seen[it.ID] {
				continue
			}
			if !admit(it, includes, excludes) {
				continue
			}
			seen[it.ID] = true
			pool = append(pool, it)
		}
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: channel %d matched nothing across %d libraries, %d collections and %d filters",
			ErrCandidatePoolEmpty, channel.ID, len(sources), len(collections), len(filters))
	}

	pool = e.dropRecent(ctx, channel.ID, pool)

	log.Debug().
		Int("channel_id", channel.ID).
		Int("pool", len(pool)).
		Msg("selector: candidate pool built")
	return pool, nil
}

// fetchSource queries one library, scoped to its collection kind. Include
// filters are grouped by content scope so each distinct scope costs one
// catalog query with upstream genre narrowing.
func (e *Engine) fetchSource(ctx context.Context, src model.LibrarySource, includes []model.GenreFilter) ([]catalog.Item, error) {
	kinds := kindsForCollection(src.CollectionKind)

	if len(includes) == 0 {
		return e.catalog.ListItems(ctx, src.LibraryID, kinds, nil)
	}

	byScope := make(map[string][]string)
	for _, f := range includes {
		byScope[f.Scope] = append(byScope[f.Scope], f.Genre)
	}

	var out []catalog.Item
	for scope, genres := range byScope {
		scoped := intersectKinds(kinds, kindsForScope(scope))
		if len(scoped) == 0 {
			continue
		}
		items, err := e.catalog.ListItems(ctx, src.LibraryID, scoped, genres)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// dropRecent removes items inside the recency window, unless that would
// empty the pool — a three-item channel still has to fill a full day.
func (e *Engine) dropRecent(ctx context.Context, channelID int, pool []catalog.Item) []catalog.Item {
	recent, err := e.recency.RecentlyPlayed(ctx, channelID, e.now().Add(-e.recencyWindow))
	if err != nil {
		log.Warn().Err(err).Int("channel_id", channelID).Msg("selector: recency lookup failed, keeping full pool")
		return pool
	}
	if len(recent) == 0 {
		return pool
	}
	fresh := make([]catalog.Item, 0, len(pool))
	for _, it := range pool {
		if !recent[it.ID] {
			fresh = append(fresh, it)
		}
	}
	if len(fresh) == 0 {
		return pool
	}
	return fresh
}

// admit applies genre filters to one item. Only filters whose content scope
// covers the item's kind participate: an item qualifies when some applicable
// include filter matches (or none apply) and no applicable exclude filter
// matches. An item with no genre metadata passes include filtering — curated
// content often lacks tags, and the absence of a tag is not a mismatch.
func admit(it catalog.Item, includes, excludes []model.GenreFilter) bool {
	if len(it.Genres) == 0 {
		return true
	}
	genres := make(map[string]bool, len(it.Genres))
	for _, g := range it.Genres {
		genres[g] = true
	}

	applicable := false
	matched := false
	for _, f := range includes {
		if !f.AppliesTo(it.Kind) {
			continue
		}
		applicable = true
		if genres[f.Genre] {
			matched = true
			break
		}
	}
	if applicable && !matched {
		return false
	}

	for _, f := range excludes {
		if f.AppliesTo(it.Kind) && genres[f.Genre] {
			return false
		}
	}
	return true
}

func kindsForCollection(kind string) []string {
	switch kind {
	case model.CollectionMovies:
		return []string{model.ItemMovie}
	case model.CollectionTVShows:
		return []string{model.ItemEpisode}
	default:
		return []string{model.ItemMovie, model.ItemEpisode}
	}
}

func kindsForScope(scope string) []string {
	switch scope {
	case model.ScopeMovie:
		return []string{model.ItemMovie}
	case model.ScopeEpisode:
		return []string{model.ItemEpisode}
	default:
		return []string{model.ItemMovie, model.ItemEpisode}
	}
}

func intersectKinds(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, k := range b {
		in[k] = true
	}
	var out []string
	for _, k := range a {
		if in[k] {
			out = append(out, k)
		}
	}
	return out
}

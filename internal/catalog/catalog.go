// Package catalog is the read-only gateway to the upstream media catalog
// (Jellyfin-compatible API). The engine consumes the Client interface; tests
// substitute fakes.
package catalog

import "context"

// Item is one playable library item as the engine sees it.
type Item struct {
	ID          string
	Name        string
	Kind        string // model.ItemMovie | model.ItemEpisode
	LibraryID   string
	Genres      []string
	Runtime     int // seconds
	SeriesName  string
	Season      int
	Episode     int
	Description string
}

// Client is the narrow read interface the engine needs from the catalog.
type Client interface {
	// ListItems returns playable items of the given kinds in a library,
	// optionally pre-filtered by genre upstream. Items with a runtime under
	// the catalog's minimum are never returned.
	ListItems(ctx context.Context, libraryID string, kinds []string, genres []string) ([]Item, error)

	// ListGenres enumerates the distinct genres present in a library.
	ListGenres(ctx context.Context, libraryID string) ([]string, error)

	// GetItem resolves a single item by id.
	GetItem(ctx context.Context, itemID string) (*Item, error)

	// StreamURL returns the direct playback URL for an item.
	StreamURL(itemID string) string
}

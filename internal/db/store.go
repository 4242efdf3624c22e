// exposes a Store over the channel/schedule tables; the engine consumes it
// so tests can substitute an in-memory implementation.
package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Castaway-Media/castaway/internal/model"
)

type Store interface {
	// channel reads
	GetChannelByID(ctx context.Context, id int) (*model.Channel, error)
	ListChannels(ctx context.Context) ([]model.Channel, error)
	ListAutoChannels(ctx context.Context) ([]model.Channel, error)

	// build inputs
	ListLibrarySources(ctx context.Context, channelID int) ([]model.LibrarySource, error)
	ListCollectionSources(ctx context.Context, channelID int) ([]model.CollectionSource, error)
	ListGenreFilters(ctx context.Context, channelID int) ([]model.GenreFilter, error)

	// schedule entries
	ListEntriesInRange(ctx context.Context, channelID int, from, to time.Time) ([]model.ScheduleEntry, error)
	LastEntryEnd(ctx context.Context, channelID int) (*time.Time, error)
	ReplaceEntries(ctx context.Context, channelID int, entries []model.ScheduleEntry, resetAfter *time.Time) error
	PruneEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}

package model

import "time"

// Item kinds carried on schedule entries.
const (
	ItemMovie   = "movie"
	ItemEpisode = "episode"
)

// ScheduleEntry is one timed occurrence of a media item on a channel's
// timeline. EndTime is always StartTime + Duration, stored redundantly for
// range queries. Entries are immutable once written; regeneration replaces
// them wholesale.
type ScheduleEntry struct {
	ID        int    `db:"id"         json:"id"`
	ChannelID int    `db:"channel_id" json:"channel_id"`

	Title         string  `db:"title"          json:"title"`
	SeriesName    *string `db:"series_name"    json:"series_name,omitempty"`
	SeasonNumber  *int    `db:"season_number"  json:"season_number,omitempty"`
	EpisodeNumber *int    `db:"episode_number" json:"episode_number,omitempty"`
	Description   *string `db:"description"    json:"description,omitempty"`

	MediaItemID string `db:"media_item_id" json:"media_item_id"`
	LibraryID   string `db:"library_id"    json:"library_id"`
	ItemKind    string `db:"item_kind"     json:"item_kind"`
	Genres      string `db:"genres"        json:"genres"` // JSON array, e.g. ["Sci-Fi"]

	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time"   json:"end_time"`
	Duration  int       `db:"duration"   json:"duration"` // seconds, always > 0

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the entry is active at t (start inclusive, end
// exclusive).
func (e *ScheduleEntry) Covers(t time.Time) bool {
	return !t.Before(e.StartTime) && t.Before(e.EndTime)
}

// NowPlaying is the entry active at a queried instant plus the elapsed
// offset into it. Derived at query time, never persisted.
type NowPlaying struct {
	Entry  ScheduleEntry `json:"entry"`
	Offset int           `json:"offset"` // seconds into the entry, 0 <= Offset < Duration
}

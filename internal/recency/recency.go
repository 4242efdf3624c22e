// Package recency tracks, per channel, which media items played recently so
// the candidate selector can avoid immediate repeats. Backed by redis in
// production and by a bounded in-memory ring otherwise.
package recency

import (
	"context"
	"time"
)

type Store interface {
	// MarkPlayed records items as played on a channel at the given time.
	MarkPlayed(ctx context.Context, channelID int, itemIDs []string, at time.Time) error

	// RecentlyPlayed returns the set of item ids played on the channel at or
	// after since.
	RecentlyPlayed(ctx context.Context, channelID int, since time.Time) (map[string]bool, error)
}

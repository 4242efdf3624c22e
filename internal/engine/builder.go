package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/metrics"
	"github.com/Castaway-Media/castaway/internal/model"
)

const (
	// consecutive zero/negative-runtime draws before the build is abandoned
	maxConsecutiveRejects = 25

	// hard cap on entries per build; guarantees termination even if the
	// window math goes wrong (72h of 30s items is ~8.6k entries)
	maxEntriesPerBuild = 20000
)

// Build fills [windowStart, windowEnd) for one channel. The first new entry
// starts at max(windowStart, last existing entry end) so repeated builds
// never overlap. The last entry may overshoot windowEnd; entries are never
// truncated mid-item. The whole build commits atomically or not at all.
func (e *Engine) Build(ctx context.Context, channel *model.Channel, windowStart, windowEnd time.Time, reset bool) (int, error) {
	if !e.locks.tryLock(channel.ID) {
		metrics.BuildsTotal.WithLabelValues(strconv.Itoa(channel.ID), "busy").Inc()
		return 0, ErrBuildInProgress
	}
	defer e.locks.unlock(channel.ID)

	created, err := e.build(ctx, channel, windowStart, windowEnd, reset)
	label := strconv.Itoa(channel.ID)
	switch {
	case err == nil:
		metrics.BuildsTotal.WithLabelValues(label, "ok").Inc()
		metrics.EntriesCreated.WithLabelValues(label).Add(float64(created))
	case errors.Is(err, ErrCandidatePoolEmpty):
		metrics.BuildsTotal.WithLabelValues(label, "pool_empty").Inc()
	case errors.Is(err, ErrBuilderStalled):
		metrics.BuildsTotal.WithLabelValues(label, "stalled").Inc()
	case errors.Is(err, catalog.ErrUnavailable):
		metrics.BuildsTotal.WithLabelValues(label, "catalog").Inc()
	default:
		metrics.BuildsTotal.WithLabelValues(label, "store").Inc()
	}
	return created, err
}

func (e *Engine) build(ctx context.Context, channel *model.Channel, windowStart, windowEnd time.Time, reset bool) (int, error) {
	anchor := windowStart.UTC()
	if !reset {
		end, err := e.store.LastEntryEnd(ctx, channel.ID)
		if err != nil {
			return 0, err
		}
		if end != nil && end.After(anchor) {
			anchor = end.UTC()
		}
	}
	if !anchor.Before(windowEnd) {
		// coverage already extends past the window; nothing to build
		return 0, nil
	}

	pool, err := e.SelectPool(ctx, channel)
	if err != nil {
		return 0, err
	}

	pick := newPicker(pool, e.newRand())
	cursor := anchor
	rejects := 0
	var entries []model.ScheduleEntry
	for cursor.Before(windowEnd) {
		if len(entries) >= maxEntriesPerBuild {
			return 0, errors.New("entry cap exceeded, window too large")
		}
		item := pick.next()
		if item.Runtime <= 0 {
			rejects++
			if rejects >= maxConsecutiveRejects {
				return 0, ErrBuilderStalled
			}
			continue
		}
		rejects = 0
		entries = append(entries, entryFromItem(channel.ID, item, cursor))
		cursor = cursor.Add(time.Duration(item.Runtime) * time.Second)
	}

	var resetAfter *time.Time
	if reset {
		resetAfter = &anchor
	}
	if err := e.store.ReplaceEntries(ctx, channel.ID, entries, resetAfter); err != nil {
		return 0, err
	}

	// recency is advisory; mark only after the entries are committed
	played := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, en := range entries {
		if !seen[en.MediaItemID] {
			seen[en.MediaItemID] = true
			played = append(played, en.MediaItemID)
		}
	}
	if err := e.recency.MarkPlayed(ctx, channel.ID, played, e.now()); err != nil {
		log.Warn().Err(err).Int("channel_id", channel.ID).Msg("builder: recency mark failed")
	}

	log.Info().
		Int("channel_id", channel.ID).
		Int("entries", len(entries)).
		Time("from", anchor).
		Time("through", cursor).
		Bool("reset", reset).
		Msg("builder: schedule committed")
	return len(entries), nil
}

func entryFromItem(channelID int, item catalog.Item, start time.Time) model.ScheduleEntry {
	genres := "[]"
	if len(item.Genres) > 0 {
		if raw, err := json.Marshal(item.Genres); err == nil {
			genres = string(raw)
		}
	}
	entry := model.ScheduleEntry{
		ChannelID:   channelID,
		Title:       item.Name,
		MediaItemID: item.ID,
		LibraryID:   item.LibraryID,
		ItemKind:    item.Kind,
		Genres:      genres,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(item.Runtime) * time.Second),
		Duration:    item.Runtime,
	}
	if item.SeriesName != "" {
		series := item.SeriesName
		entry.SeriesName = &series
		if item.Season > 0 {
			season := item.Season
			entry.SeasonNumber = &season
		}
		if item.Episode > 0 {
			episode := item.Episode
			entry.EpisodeNumber = &episode
		}
	}
	if item.Description != "" {
		desc := item.Description
		entry.Description = &desc
	}
	return entry
}

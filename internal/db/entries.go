package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/model"
)

const entryCols = `
	id, channel_id, title, series_name, season_number, episode_number,
	description, media_item_id, library_id, item_kind, genres,
	start_time, end_time, duration, created_at`

// ListEntriesInRange returns entries overlapping [from, to), ordered by
// start_time. A single statement, so readers always see a committed schedule,
// never a build's partial write set.
func (s *pgStore) ListEntriesInRange(ctx context.Context, channelID int, from, to time.Time) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	const q = `
	SELECT ` + entryCols + `
	  FROM schedule_entries
	 WHERE channel_id = $1 AND start_time < $3 AND end_time > $2
	 ORDER BY start_time;`
	if err := s.db.SelectContext(ctx, &out, q, channelID, from.UTC(), to.UTC()); err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("ListEntriesInRange failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) LastEntryEnd(ctx context.Context, channelID int) (*time.Time, error) {
	var end time.Time
	const q = `
	SELECT end_time FROM schedule_entries
	 WHERE channel_id = $1
	 ORDER BY start_time DESC
	 LIMIT 1;`
	err := s.db.GetContext(ctx, &end, q, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("LastEntryEnd failed")
		return nil, err
	}
	return &end, nil
}

// ReplaceEntries commits one build atomically: optionally clears entries
// ending after resetAfter, inserts the new set, and advances the channel's
// generated_through high-water mark. Either everything commits or nothing
// does.
func (s *pgStore) ReplaceEntries(ctx context.Context, channelID int, entries []model.ScheduleEntry, resetAfter *time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if resetAfter != nil {
		// Entries already fully in the past are retained for audit/export.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM schedule_entries WHERE channel_id = $1 AND end_time > $2;`,
			channelID, resetAfter.UTC()); err != nil {
			log.Error().Err(err).Int("channel_id", channelID).Msg("ReplaceEntries: reset delete failed")
			return err
		}
	}

	const ins = `
	INSERT INTO schedule_entries
	  (channel_id, title, series_name, season_number, episode_number,
	   description, media_item_id, library_id, item_kind, genres,
	   start_time, end_time, duration, created_at)
	VALUES
	  (:channel_id, :title, :series_name, :season_number, :episode_number,
	   :description, :media_item_id, :library_id, :item_kind, :genres,
	   :start_time, :end_time, :duration, now());`
	for i := range entries {
		entries[i].ChannelID = channelID
		if _, err := tx.NamedExecContext(ctx, ins, entries[i]); err != nil {
			log.Error().Err(err).Int("channel_id", channelID).Msg("ReplaceEntries: insert failed")
			return err
		}
	}

	if len(entries) > 0 {
		last := entries[len(entries)-1].EndTime.UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE channels SET generated_through = $2, updated_at = now() WHERE id = $1;`,
			channelID, last); err != nil {
			log.Error().Err(err).Int("channel_id", channelID).Msg("ReplaceEntries: high-water update failed")
			return err
		}
	}

	return tx.Commit()
}

func (s *pgStore) PruneEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM schedule_entries WHERE end_time < $1;`, cutoff.UTC())
	if err != nil {
		log.Error().Err(err).Msg("PruneEntriesBefore failed")
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/model"
)

const channelCols = `
	id, name, description, channel_number, enabled, channel_type,
	schedule_mode, generated_through, created_at, updated_at`

func (s *pgStore) GetChannelByID(ctx context.Context, id int) (*model.Channel, error) {
	var c model.Channel
	err := s.db.GetContext(ctx, &c,
		`SELECT `+channelCols+` FROM channels WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Int("channel_id", id).Msg("GetChannelByID failed")
		return nil, err
	}
	return &c, nil
}

func (s *pgStore) ListChannels(ctx context.Context) ([]model.Channel, error) {
	var out []model.Channel
	const q = `SELECT ` + channelCols + ` FROM channels ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("ListChannels failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListAutoChannels(ctx context.Context) ([]model.Channel, error) {
	var out []model.Channel
	const q = `
	SELECT ` + channelCols + `
	  FROM channels
	 WHERE enabled = true AND schedule_mode = $1
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q, model.ScheduleModeAutoGenre); err != nil {
		log.Error().Err(err).Msg("ListAutoChannels failed")
		return nil, err
	}
	return out, nil
}

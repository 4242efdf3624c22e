package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/model"
)

func (s *pgStore) ListLibrarySources(ctx context.Context, channelID int) ([]model.LibrarySource, error) {
	var out []model.LibrarySource
	const q = `
	SELECT id, channel_id, library_id, library_name, collection_kind
	  FROM library_sources
	 WHERE channel_id = $1
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q, channelID); err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("ListLibrarySources failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListCollectionSources(ctx context.Context, channelID int) ([]model.CollectionSource, error) {
	var out []model.CollectionSource
	const q = `
	SELECT id, channel_id, collection_id, collection_name
	  FROM collection_sources
	 WHERE channel_id = $1
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q, channelID); err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("ListCollectionSources failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListGenreFilters(ctx context.Context, channelID int) ([]model.GenreFilter, error) {
	var out []model.GenreFilter
	const q = `
	SELECT id, channel_id, genre, scope, polarity
	  FROM genre_filters
	 WHERE channel_id = $1
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q, channelID); err != nil {
		log.Error().Err(err).Int("channel_id", channelID).Msg("ListGenreFilters failed")
		return nil, err
	}
	return out, nil
}

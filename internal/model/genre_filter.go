package model

// Content scopes and polarities for genre filters.
const (
	ScopeMovie   = "movie"
	ScopeEpisode = "episode"
	ScopeBoth    = "both"

	PolarityInclude = "include"
	PolarityExclude = "exclude"
)

// GenreFilter restricts a channel's eligible content by genre. Include
// filters are unioned; an item qualifies when it matches at least one include
// filter (or none exist) and matches no exclude filter.
type GenreFilter struct {
	ID        int    `db:"id"         json:"id"`
	ChannelID int    `db:"channel_id" json:"channel_id"`
	Genre     string `db:"genre"      json:"genre"`
	Scope     string `db:"scope"      json:"scope"`
	Polarity  string `db:"polarity"   json:"polarity"`
}

// AppliesTo reports whether the filter's content scope covers an item kind
// ("movie" or "episode").
func (f *GenreFilter) AppliesTo(kind string) bool {
	return f.Scope == ScopeBoth || f.Scope == kind
}

package model

// Collection kinds for a library source.
const (
	CollectionMovies  = "movies"
	CollectionTVShows = "tvshows"
	CollectionMixed   = "mixed"
)

// LibrarySource binds a channel to one upstream catalog library. A movies
// library yields only movie candidates, a tvshows library only episodes.
type LibrarySource struct {
	ID             int    `db:"id"              json:"id"`
	ChannelID      int    `db:"channel_id"      json:"channel_id"`
	LibraryID      string `db:"library_id"      json:"library_id"`
	LibraryName    string `db:"library_name"    json:"library_name"`
	CollectionKind string `db:"collection_kind" json:"collection_kind"`
}

package model

// CollectionSource binds a channel to one curated upstream collection. The
// collection's members join the candidate pool alongside library items; the
// catalog expands the collection recursively, so series and nested
// collections resolve to playable movies and episodes.
type CollectionSource struct {
	ID             int    `db:"id"              json:"id"`
	ChannelID      int    `db:"channel_id"      json:"channel_id"`
	CollectionID   string `db:"collection_id"   json:"collection_id"`
	CollectionName string `db:"collection_name" json:"collection_name"`
}

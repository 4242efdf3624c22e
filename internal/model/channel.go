package model

import "time"

// Schedule modes for a channel.
const (
	ScheduleModeManual    = "manual"
	ScheduleModeAutoGenre = "auto_genre"
)

// Channel is a virtual, continuously-playing programming stream.
// Entries, library sources and genre filters are owned exclusively by the
// channel and cascade on delete.
type Channel struct {
	ID            int        `db:"id"             json:"id"`
	Name          string     `db:"name"           json:"name"`
	Description   *string    `db:"description"    json:"description,omitempty"`
	ChannelNumber *string    `db:"channel_number" json:"channel_number,omitempty"`
	Enabled       bool       `db:"enabled"        json:"enabled"`
	ChannelType   string     `db:"channel_type"   json:"channel_type"`
	ScheduleMode  string     `db:"schedule_mode"  json:"schedule_mode"`

	// GeneratedThrough is the end of the last generated entry; nil until the
	// first successful build.
	GeneratedThrough *time.Time `db:"generated_through" json:"generated_through,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Auto reports whether the channel is eligible for top-up builds.
func (c *Channel) Auto() bool {
	return c.Enabled && c.ScheduleMode == ScheduleModeAutoGenre
}

package packets

import "github.com/Castaway-Media/castaway/internal/model"

type GenerateScheduleResponse struct {
	Created int `json:"created"`
}

type ScheduleResponse struct {
	ChannelID int                   `json:"channel_id"`
	From      string                `json:"from"`
	To        string                `json:"to"`
	Entries   []model.ScheduleEntry `json:"entries"`
}

// NowPlayingResponse is empty (Playing=false) when the channel has a gap at
// the queried instant.
type NowPlayingResponse struct {
	Playing bool              `json:"playing"`
	Now     *model.NowPlaying `json:"now,omitempty"`
}

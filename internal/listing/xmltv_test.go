package listing

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castaway-Media/castaway/internal/model"
)

func intPtr(i int) *int { return &i }

func testSnapshot() ([]model.Channel, map[int][]model.ScheduleEntry) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	channels := []model.Channel{
		{ID: 1, Name: "All Day Drama", Enabled: true},
		{ID: 2, Name: "Dark Channel", Enabled: false},
	}
	entries := map[int][]model.ScheduleEntry{
		1: {
			{
				ID: 1, ChannelID: 1, Title: "Pilot",
				SeriesName: strPtr("Some Show"), SeasonNumber: intPtr(1), EpisodeNumber: intPtr(1),
				Description: strPtr("Where it all began."),
				MediaItemID: "e1", ItemKind: model.ItemEpisode, Genres: `["Drama"]`,
				StartTime: day.Add(-30 * time.Minute), EndTime: day.Add(30 * time.Minute), Duration: 3600,
			},
			{
				ID: 2, ChannelID: 1, Title: "A Film",
				MediaItemID: "m1", ItemKind: model.ItemMovie, Genres: "[]",
				StartTime: day.Add(30 * time.Minute), EndTime: day.Add(2 * time.Hour), Duration: 5400,
			},
			{
				ID: 3, ChannelID: 1, Title: "Out of Range",
				MediaItemID: "m2", ItemKind: model.ItemMovie, Genres: "[]",
				StartTime: day.Add(26 * time.Hour), EndTime: day.Add(28 * time.Hour), Duration: 7200,
			},
		},
		2: {
			{
				ID: 4, ChannelID: 2, Title: "Hidden",
				MediaItemID: "m3", ItemKind: model.ItemMovie, Genres: "[]",
				StartTime: day, EndTime: day.Add(time.Hour), Duration: 3600,
			},
		},
	}
	return channels, entries
}

func TestBuildXMLTV(t *testing.T) {
	channels, entries := testSnapshot()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	tv := BuildXMLTV(channels, entries, from, to)

	require.Len(t, tv.Channels, 1, "disabled channels are omitted")
	assert.Equal(t, "1", tv.Channels[0].ID)
	assert.Equal(t, "All Day Drama", tv.Channels[0].DisplayName)

	require.Len(t, tv.Programs, 2, "programme outside the range is dropped")

	// straddling entry is clipped to the range in display only
	first := tv.Programs[0]
	assert.Equal(t, "Pilot", first.Title)
	assert.Equal(t, "20240101000000 +0000", first.Start)
	assert.Equal(t, "20240101003000 +0000", first.Stop)
	assert.Equal(t, "Some Show", first.SubTitle)
	assert.Equal(t, "Where it all began.", first.Desc)
	assert.Equal(t, "0.0.", first.Episode)
	assert.Equal(t, []string{"Drama"}, first.Category)

	second := tv.Programs[1]
	assert.Equal(t, "A Film", second.Title)
	assert.Equal(t, []string{"movie"}, second.Category, "kind is the category fallback")
}

func TestWriteXMLTVDeterministic(t *testing.T) {
	channels, entries := testSnapshot()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	render := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, WriteXMLTV(&buf, BuildXMLTV(channels, entries, from, to)))
		return buf.Bytes()
	}

	a, b := render(), render()
	assert.Equal(t, a, b, "same snapshot and range must render identical bytes")
	assert.Contains(t, string(a), `<!DOCTYPE tv SYSTEM "xmltv.dtd">`)
	assert.Contains(t, string(a), `<programme start="20240101000000 +0000"`)
}

// Package listing renders schedule snapshots into the playlist and EPG
// documents playback clients consume. Output is deterministic: the same
// snapshot and range always produce the same bytes.
package listing

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Castaway-Media/castaway/internal/model"
)

const groupTitle = "Castaway"

// WriteM3U writes the channel playlist. One record per enabled channel
// pointing at its stable stream endpoint; disabled channels are omitted.
// Record order follows the input slice, which the store returns ordered by
// id.
func WriteM3U(w io.Writer, channels []model.Channel, baseURL string) error {
	base := strings.TrimRight(baseURL, "/")
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, ch := range channels {
		if !ch.Enabled {
			continue
		}
		number := channelNumber(&ch)
		fmt.Fprintf(buf, `#EXTINF:-1 channel-id="%d" channel-number="%s" tvg-id="%d" tvg-name="%s" group-title="%s",%s %s`+"\n",
			ch.ID, number, ch.ID, ch.Name, groupTitle, number, ch.Name)
		fmt.Fprintf(buf, "%s/livetv/stream/%d\n", base, ch.ID)
	}
	_, err := io.Copy(w, buf)
	return err
}

// channelNumber falls back to a derived number when the channel has none
// assigned, so every record stays tunable.
func channelNumber(ch *model.Channel) string {
	if ch.ChannelNumber != nil && *ch.ChannelNumber != "" {
		return *ch.ChannelNumber
	}
	return fmt.Sprintf("100.%d", ch.ID)
}

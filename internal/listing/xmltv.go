package listing

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Castaway-Media/castaway/internal/model"
)

const xmltvTimeLayout = "20060102150405 -0700"

// TV is the root XMLTV document.
type TV struct {
	XMLName   xml.Name    `xml:"tv"`
	Generator string      `xml:"generator-info-name,attr"`
	Channels  []TVChannel `xml:"channel"`
	Programs  []Programme `xml:"programme"`
}

type TVChannel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
}

type Programme struct {
	Start    string   `xml:"start,attr"`
	Stop     string   `xml:"stop,attr"`
	Channel  string   `xml:"channel,attr"`
	Title    string   `xml:"title"`
	SubTitle string   `xml:"sub-title,omitempty"`
	Desc     string   `xml:"desc,omitempty"`
	Category []string `xml:"category,omitempty"`
	Episode  string   `xml:"episode-num,omitempty"`
}

// BuildXMLTV renders a programme listing for entries intersecting [from, to).
// Entries are clipped to the range in display only, never in storage.
func BuildXMLTV(channels []model.Channel, entriesByChannel map[int][]model.ScheduleEntry, from, to time.Time) TV {
	tv := TV{Generator: "castaway"}

	for _, ch := range channels {
		if !ch.Enabled {
			continue
		}
		id := strconv.Itoa(ch.ID)
		tv.Channels = append(tv.Channels, TVChannel{ID: id, DisplayName: ch.Name})

		for _, entry := range entriesByChannel[ch.ID] {
			if !entry.StartTime.Before(to) || !entry.EndTime.After(from) {
				continue
			}
			start := entry.StartTime
			stop := entry.EndTime
			if start.Before(from) {
				start = from
			}
			if stop.After(to) {
				stop = to
			}
			tv.Programs = append(tv.Programs, programmeFromEntry(id, &entry, start, stop))
		}
	}
	return tv
}

func programmeFromEntry(channelID string, entry *model.ScheduleEntry, start, stop time.Time) Programme {
	p := Programme{
		Start:   start.UTC().Format(xmltvTimeLayout),
		Stop:    stop.UTC().Format(xmltvTimeLayout),
		Channel: channelID,
		Title:   entry.Title,
	}
	if entry.SeriesName != nil {
		p.SubTitle = *entry.SeriesName
	}
	if entry.Description != nil {
		p.Desc = *entry.Description
	}
	if entry.SeasonNumber != nil && entry.EpisodeNumber != nil {
		// xmltv_ns numbering is zero-based
		p.Episode = fmt.Sprintf("%d.%d.", *entry.SeasonNumber-1, *entry.EpisodeNumber-1)
	}
	var genres []string
	if err := json.Unmarshal([]byte(entry.Genres), &genres); err == nil && len(genres) > 0 {
		p.Category = genres
	} else {
		p.Category = []string{entry.ItemKind}
	}
	return p
}

// WriteXMLTV serializes the document with the XML header and DOCTYPE players
// expect.
func WriteXMLTV(w io.Writer, tv TV) error {
	if _, err := io.WriteString(w, xml.Header+"<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

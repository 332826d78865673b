package models

import (
	json "github.com/goccy/go-json"
)

// ListenEvent is one normalized scrobble. It is produced at the history
// boundary from the last.fm wire shape and is the only event form the
// rest of the code ever sees.
type ListenEvent struct {
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Album      string `json:"album"`
	NowPlaying bool   `json:"nowPlaying"`
	PlayedAt   string `json:"playedAt"`
}

// --- last.fm wire shapes ---

type lfmText struct {
	Text string `json:"#text"`
}

type lfmDate struct {
	UTS  string `json:"uts"`
	Text string `json:"#text"`
}

type lfmAttr struct {
	NowPlaying string `json:"nowplaying"`
}

type LfmTrack struct {
	Name   string   `json:"name"`
	Artist lfmText  `json:"artist"`
	Album  lfmText  `json:"album"`
	Date   *lfmDate `json:"date"`
	Attr   *lfmAttr `json:"@attr"`
}

// LfmTrackList absorbs the API quirk where a single-event result is a
// bare object instead of a one-element array. The union is resolved here,
// on ingestion; downstream code always gets a slice.
type LfmTrackList []LfmTrack

func (l *LfmTrackList) UnmarshalJSON(data []byte) error {
	var many []LfmTrack
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one LfmTrack
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = LfmTrackList{one}
	return nil
}

type LfmRecentTracks struct {
	Track LfmTrackList `json:"track"`
}

type LfmResponse struct {
	RecentTracks *LfmRecentTracks `json:"recenttracks"`
	Error        int              `json:"error"`
	Message      string           `json:"message"`
}

// Event converts one wire track to the normalized form.
func (t *LfmTrack) Event() ListenEvent {
	ev := ListenEvent{
		Artist: t.Artist.Text,
		Title:  t.Name,
		Album:  t.Album.Text,
	}
	if t.Attr != nil && t.Attr.NowPlaying == "true" {
		ev.NowPlaying = true
	}
	if t.Date != nil {
		ev.PlayedAt = t.Date.Text
	}
	return ev
}

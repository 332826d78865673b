package models

// TargetTrack is a track the administrator designates as required
// listening. Artist and title are free text; the progress service matches
// them loosely against listening history.
type TargetTrack struct {
	ID     string `json:"id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// User is one community member. The password is stored and compared as
// plain text: records round-trip through the remote bin verbatim and must
// stay login-compatible across devices.
type User struct {
	ID                  string  `json:"id"`
	AppUsername         string  `json:"appUsername"`
	Password            string  `json:"password"`
	LastFmUsername      string  `json:"lastFmUsername"`
	LastFmAPIKey        string  `json:"lastFmApiKey"`
	LastCheckInDate     *string `json:"lastCheckInDate"`
	PersonalPlaylistURL string  `json:"personalPlaylistUrl,omitempty"`
	PersonalArtist      string  `json:"personalArtist,omitempty"`
	PersonalTrack       string  `json:"personalTrack,omitempty"`
}

// ProfileUpdate carries the optional profile fields of a user. Nil fields
// are left untouched by an update; set fields replace the stored value.
type ProfileUpdate struct {
	LastFmUsername      *string `json:"lastFmUsername,omitempty"`
	LastFmAPIKey        *string `json:"lastFmApiKey,omitempty"`
	PersonalPlaylistURL *string `json:"personalPlaylistUrl,omitempty"`
	PersonalArtist      *string `json:"personalArtist,omitempty"`
	PersonalTrack       *string `json:"personalTrack,omitempty"`
}

// DayConfig overrides the track assignment for one weekday. An absent or
// empty Tracks list means "no override for this day".
type DayConfig struct {
	Tracks    []TargetTrack `json:"tracks"`
	SpotifyID string        `json:"spotifyId"`
}

// WeeklySchedule maps a day index (0 = Sunday … 6 = Saturday) to its
// configuration. The map is sparse: a missing key is "unset", not "empty".
type WeeklySchedule map[int]DayConfig

// AppDocument is the single synchronized unit. It is always read and
// written whole; there is no partial mutation API on either backend.
type AppDocument struct {
	Users             []User         `json:"users"`
	Tracks            []TargetTrack  `json:"tracks"`
	SpotifyPlaylistID string         `json:"spotifyPlaylistId"`
	WeeklySchedule    WeeklySchedule `json:"weeklySchedule"`
	AdminPin          string         `json:"adminPin"`
}

const DefaultAdminPin = "1234"

// DefaultSpotifyPlaylistID points at a public playlist so the member view
// has something to embed before an administrator configures anything.
const DefaultSpotifyPlaylistID = "37i9dQZF1DXcBWIGoYBM5M"

// DefaultTracks is the built-in fallback assignment used when neither the
// weekly schedule nor the legacy flat list has tracks.
func DefaultTracks() []TargetTrack {
	return []TargetTrack{
		{ID: "1", Artist: "NewJeans", Title: "Super Shy"},
		{ID: "2", Artist: "The Weeknd", Title: "Blinding Lights"},
		{ID: "3", Artist: "Arctic Monkeys", Title: "Do I Wanna Know?"},
	}
}

// Normalize fills nil collections and defaults so callers never see a
// half-initialized document. Legacy default tracks are deliberately NOT
// applied here: they are a resolve-time fallback, not document state.
func (d *AppDocument) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Tracks == nil {
		d.Tracks = []TargetTrack{}
	}
	if d.WeeklySchedule == nil {
		d.WeeklySchedule = WeeklySchedule{}
	}
	if d.AdminPin == "" {
		d.AdminPin = DefaultAdminPin
	}
}

// FindUserByID returns a pointer into d.Users, or nil.
func (d *AppDocument) FindUserByID(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

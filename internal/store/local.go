package store

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/structures"
)

// Storage keys, one per top-level document field. Keeping the fields in
// separate keys lets partial legacy data load: a corrupt value defaults
// that one field without discarding the rest.
const (
	KeyUsers           = "streamguard_users"
	KeyTracks          = "streamguard_playlist"
	KeySpotifyPlaylist = "streamguard_spotify_playlist"
	KeyWeeklySchedule  = "streamguard_weekly_schedule"
	KeyAdminPin        = "streamguard_admin_pin"

	// KeyCloudConfig is local-only and never part of the synced document.
	KeyCloudConfig = "streamguard_cloud_config"
)

// LocalStore keeps the document in a directory of <key>.json files.
// Reads and writes complete within the call; there is no background I/O.
type LocalStore struct {
	dir    string
	logger providers.Logger
}

func NewLocalStore(conf *structures.Config, logger providers.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(conf.Store.Dir, 0755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: conf.Store.Dir, logger: logger}, nil
}

func (s *LocalStore) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// readKey unmarshals one key into out. Returns false when the key is
// absent or unreadable; a parse failure is logged and treated as absent
// so the remaining keys still load.
func (s *LocalStore) readKey(key string, out any) bool {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf(providers.TypeSync, "Failed to read key %s: %s", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warnf(providers.TypeSync, "Corrupt value for key %s, using default: %s", key, err)
		return false
	}
	return true
}

// writeKey marshals val and writes it atomically (tmp + rename).
func (s *LocalStore) writeKey(key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	path := s.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// RawKey returns the stored JSON for a key verbatim, or nil when absent.
func (s *LocalStore) RawKey(key string) []byte {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		return nil
	}
	return data
}

// PutRawKey overwrites a key with pre-serialized JSON, verbatim.
func (s *LocalStore) PutRawKey(key string, data []byte) error {
	path := s.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *LocalStore) FetchDocument() (*models.AppDocument, error) {
	doc := &models.AppDocument{}
	s.readKey(KeyUsers, &doc.Users)
	s.readKey(KeyTracks, &doc.Tracks)
	s.readKey(KeySpotifyPlaylist, &doc.SpotifyPlaylistID)
	s.readKey(KeyWeeklySchedule, &doc.WeeklySchedule)
	s.readKey(KeyAdminPin, &doc.AdminPin)
	doc.Normalize()
	return doc, nil
}

func (s *LocalStore) SaveDocument(doc *models.AppDocument) error {
	doc.Normalize()
	if err := s.writeKey(KeyUsers, doc.Users); err != nil {
		return err
	}
	if err := s.writeKey(KeyTracks, doc.Tracks); err != nil {
		return err
	}
	if err := s.writeKey(KeySpotifyPlaylist, doc.SpotifyPlaylistID); err != nil {
		return err
	}
	if err := s.writeKey(KeyWeeklySchedule, doc.WeeklySchedule); err != nil {
		return err
	}
	return s.writeKey(KeyAdminPin, doc.AdminPin)
}

// Empty reports whether no document key was ever written. The cloud
// config key does not count: it is connection state, not document state.
func (s *LocalStore) Empty() bool {
	for _, key := range []string{KeyUsers, KeyTracks, KeySpotifyPlaylist, KeyWeeklySchedule, KeyAdminPin} {
		if _, err := os.Stat(s.keyPath(key)); err == nil {
			return false
		}
	}
	return true
}

// CloudConfig returns the locally stored connection override, or nil when
// none was ever saved.
func (s *LocalStore) CloudConfig() *models.CloudConfig {
	var cfg models.CloudConfig
	if !s.readKey(KeyCloudConfig, &cfg) {
		return nil
	}
	return &cfg
}

func (s *LocalStore) SaveCloudConfig(cfg *models.CloudConfig) error {
	return s.writeKey(KeyCloudConfig, cfg)
}

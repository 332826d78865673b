package store

import (
	json "github.com/goccy/go-json"
)

// Backup is the export/import file shape. Fields hold the stored JSON
// verbatim; import writes them back without merging or validation beyond
// presence. Playlist is the legacy flat track list key.
type Backup struct {
	Users    json.RawMessage `json:"users,omitempty"`
	Schedule json.RawMessage `json:"schedule,omitempty"`
	AdminPin json.RawMessage `json:"adminPin,omitempty"`
	Playlist json.RawMessage `json:"playlist,omitempty"`
}

func (s *LocalStore) ExportBackup() *Backup {
	return &Backup{
		Users:    s.RawKey(KeyUsers),
		Schedule: s.RawKey(KeyWeeklySchedule),
		AdminPin: s.RawKey(KeyAdminPin),
		Playlist: s.RawKey(KeyTracks),
	}
}

func (s *LocalStore) ImportBackup(b *Backup) error {
	if b.Users != nil {
		if err := s.PutRawKey(KeyUsers, b.Users); err != nil {
			return err
		}
	}
	if b.Schedule != nil {
		if err := s.PutRawKey(KeyWeeklySchedule, b.Schedule); err != nil {
			return err
		}
	}
	if b.AdminPin != nil {
		if err := s.PutRawKey(KeyAdminPin, b.AdminPin); err != nil {
			return err
		}
	}
	if b.Playlist != nil {
		if err := s.PutRawKey(KeyTracks, b.Playlist); err != nil {
			return err
		}
	}
	return nil
}

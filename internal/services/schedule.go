package services

import (
	"context"
	"time"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/store"
)

// DailyAssignment is what a member should see today: the active track
// list plus the external playlist to embed.
type DailyAssignment struct {
	Tracks    []models.TargetTrack `json:"tracks"`
	SpotifyID string               `json:"spotifyId"`
}

type ScheduleServiceInterface interface {
	ResolveToday(ctx context.Context) (*DailyAssignment, error)
	GetSchedule(ctx context.Context) (models.WeeklySchedule, error)
	SaveSchedule(ctx context.Context, schedule models.WeeklySchedule) error
	CopyFromDay(ctx context.Context, sourceIndex, targetIndex int) error
	GetAdminPin(ctx context.Context) (string, error)
	SetAdminPin(ctx context.Context, pin string) error
}

type ScheduleService struct {
	store  store.StoreInterface
	logger providers.Logger
	nowFn  func() time.Time
}

func NewScheduleService(store store.StoreInterface, logger providers.Logger) ScheduleServiceInterface {
	return &ScheduleService{store: store, logger: logger, nowFn: time.Now}
}

// ResolveAssignment applies the fallback chain to a document: the day's
// override wins only when its track list is non-empty, otherwise the
// legacy flat list, otherwise the built-in defaults. The playlist id has
// its own chain (day, document, built-in).
func ResolveAssignment(doc *models.AppDocument, dayIndex int) *DailyAssignment {
	if day, ok := doc.WeeklySchedule[dayIndex]; ok && len(day.Tracks) > 0 {
		spotifyID := day.SpotifyID
		if spotifyID == "" {
			spotifyID = doc.SpotifyPlaylistID
		}
		if spotifyID == "" {
			spotifyID = models.DefaultSpotifyPlaylistID
		}
		return &DailyAssignment{Tracks: day.Tracks, SpotifyID: spotifyID}
	}

	tracks := doc.Tracks
	if len(tracks) == 0 {
		tracks = models.DefaultTracks()
	}
	spotifyID := doc.SpotifyPlaylistID
	if spotifyID == "" {
		spotifyID = models.DefaultSpotifyPlaylistID
	}
	return &DailyAssignment{Tracks: tracks, SpotifyID: spotifyID}
}

func (ss *ScheduleService) ResolveToday(ctx context.Context) (*DailyAssignment, error) {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	todayIndex := int(ss.nowFn().Weekday())
	return ResolveAssignment(doc, todayIndex), nil
}

func (ss *ScheduleService) GetSchedule(ctx context.Context) (models.WeeklySchedule, error) {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	return doc.WeeklySchedule, nil
}

func (ss *ScheduleService) SaveSchedule(ctx context.Context, schedule models.WeeklySchedule) error {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return err
	}
	doc.WeeklySchedule = schedule
	return ss.store.SaveDocument(ctx, doc)
}

// CopyFromDay replaces the target day's config with a copy of the source
// day's. No merging: the target is overwritten entirely.
func (ss *ScheduleService) CopyFromDay(ctx context.Context, sourceIndex, targetIndex int) error {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return err
	}
	src, ok := doc.WeeklySchedule[sourceIndex]
	if !ok {
		delete(doc.WeeklySchedule, targetIndex)
		return ss.store.SaveDocument(ctx, doc)
	}
	tracks := make([]models.TargetTrack, len(src.Tracks))
	copy(tracks, src.Tracks)
	doc.WeeklySchedule[targetIndex] = models.DayConfig{Tracks: tracks, SpotifyID: src.SpotifyID}
	return ss.store.SaveDocument(ctx, doc)
}

func (ss *ScheduleService) GetAdminPin(ctx context.Context) (string, error) {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return "", err
	}
	return doc.AdminPin, nil
}

// SetAdminPin persists a new pin. Length rules are the caller's concern.
func (ss *ScheduleService) SetAdminPin(ctx context.Context, pin string) error {
	doc, err := ss.store.FetchDocument(ctx)
	if err != nil {
		return err
	}
	doc.AdminPin = pin
	return ss.store.SaveDocument(ctx, doc)
}

package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"streamguard/internal/history"
	"streamguard/internal/models"
	"streamguard/internal/providers"
)

var ErrCheckInNotAllowed = errors.New("check-in not allowed")

// CheckInDateLayout renders the date stamps stored on user records,
// e.g. "20/02/2024".
const CheckInDateLayout = "02/01/2006"

const nowPlayingLabel = "Listening Now..."

// TrackReport is one target track's match evidence for the UI.
type TrackReport struct {
	Track    models.TargetTrack `json:"track"`
	Listened bool               `json:"listened"`
	Label    string             `json:"label,omitempty"`
}

// ProgressReport is the full outcome of one sync for one user.
type ProgressReport struct {
	Tracks     []TrackReport `json:"tracks"`
	Percent    int           `json:"percent"`
	Complete   bool          `json:"complete"`
	CanCheckIn bool          `json:"canCheckIn"`
	SpotifyID  string        `json:"spotifyId"`
}

// MatchTargets decides which targets count as listened. A target matches
// the first event whose lower-cased artist contains the target artist AND
// whose lower-cased title contains the target title. Containment runs
// event-contains-target, never the reverse, so remixes and live versions
// still count while a shorter tribute name does not.
// Presence of a track id in the result map IS the listened signal.
func MatchTargets(events []models.ListenEvent, targets []models.TargetTrack) map[string]string {
	matches := make(map[string]string)
	for _, target := range targets {
		tArtist := strings.ToLower(target.Artist)
		tTitle := strings.ToLower(target.Title)
		for i := range events {
			ev := &events[i]
			if strings.Contains(strings.ToLower(ev.Artist), tArtist) &&
				strings.Contains(strings.ToLower(ev.Title), tTitle) {
				matches[target.ID] = matchLabel(ev)
				break
			}
		}
	}
	return matches
}

func matchLabel(ev *models.ListenEvent) string {
	if ev.NowPlaying {
		return nowPlayingLabel
	}
	if ev.PlayedAt != "" {
		return ev.PlayedAt
	}
	return "Just now"
}

// Progress is the matched share in whole percent. No targets means 0,
// never a division by zero.
func Progress(matches map[string]string, targets []models.TargetTrack) int {
	if len(targets) == 0 {
		return 0
	}
	matched := 0
	for _, t := range targets {
		if _, ok := matches[t.ID]; ok {
			matched++
		}
	}
	return int(math.Round(float64(matched) / float64(len(targets)) * 100))
}

// IsComplete reports whether the daily goal is met. An empty track list
// can never be complete.
func IsComplete(percent int, targets []models.TargetTrack) bool {
	return percent == 100 && len(targets) > 0
}

type ProgressServiceInterface interface {
	Sync(ctx context.Context, userID string) (*ProgressReport, error)
	ClaimCheckIn(ctx context.Context, userID string) (*models.User, error)
}

// ProgressService runs the sync pipeline: resolve today's assignment,
// fetch the user's history, match, and compute completion. Check-in
// claims are gated on a fresh sync, never on client-supplied state.
type ProgressService struct {
	directory DirectoryServiceInterface
	schedule  ScheduleServiceInterface
	client    history.ClientInterface
	logger    providers.Logger
	nowFn     func() time.Time
}

func NewProgressService(directory DirectoryServiceInterface, schedule ScheduleServiceInterface, client history.ClientInterface, logger providers.Logger) ProgressServiceInterface {
	return &ProgressService{
		directory: directory,
		schedule:  schedule,
		client:    client,
		logger:    logger,
		nowFn:     time.Now,
	}
}

func (ps *ProgressService) findUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := ps.directory.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (ps *ProgressService) report(ctx context.Context, user *models.User) (*ProgressReport, error) {
	assignment, err := ps.schedule.ResolveToday(ctx)
	if err != nil {
		return nil, err
	}

	events, err := ps.client.FetchRecent(ctx, user.LastFmUsername, user.LastFmAPIKey)
	if err != nil {
		return nil, err
	}

	matches := MatchTargets(events, assignment.Tracks)
	percent := Progress(matches, assignment.Tracks)
	complete := IsComplete(percent, assignment.Tracks)

	today := ps.nowFn().Format(CheckInDateLayout)
	alreadyClaimed := user.LastCheckInDate != nil && *user.LastCheckInDate == today

	report := &ProgressReport{
		Percent:    percent,
		Complete:   complete,
		CanCheckIn: complete && !alreadyClaimed,
		SpotifyID:  assignment.SpotifyID,
	}
	for _, t := range assignment.Tracks {
		label, listened := matches[t.ID]
		report.Tracks = append(report.Tracks, TrackReport{Track: t, Listened: listened, Label: label})
	}
	return report, nil
}

func (ps *ProgressService) Sync(ctx context.Context, userID string) (*ProgressReport, error) {
	user, err := ps.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ps.report(ctx, user)
}

// ClaimCheckIn re-checks completion server-side and stamps today's date
// on the user record. A second claim on the same date is rejected.
func (ps *ProgressService) ClaimCheckIn(ctx context.Context, userID string) (*models.User, error) {
	user, err := ps.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	report, err := ps.report(ctx, user)
	if err != nil {
		return nil, err
	}
	if !report.CanCheckIn {
		return nil, ErrCheckInNotAllowed
	}
	today := ps.nowFn().Format(CheckInDateLayout)
	updated, err := ps.directory.UpdateCheckIn(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	ps.logger.Infof(providers.TypeApp, "User %s checked in for %s", updated.AppUsername, today)
	return updated, nil
}

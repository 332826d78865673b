package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguard/internal/models"
	"streamguard/internal/testutil"
)

func TestMatchTargets_LooseContainment(t *testing.T) {
	targets := []models.TargetTrack{
		{ID: "t1", Artist: "NewJeans", Title: "Super Shy"},
		{ID: "t2", Artist: "The Weeknd", Title: "Blinding Lights"},
	}
	events := []models.ListenEvent{
		{Artist: "NEWJEANS (뉴진스)", Title: "Super Shy (Remix)"},
		{Artist: "The Weeknd", Title: "Save Your Tears"},
	}

	matches := MatchTargets(events, targets)
	assert.Contains(t, matches, "t1")
	assert.NotContains(t, matches, "t2")
}

func TestMatchTargets_DirectionIsEventContainsTarget(t *testing.T) {
	// The target is longer than what was played: no match. A tribute act
	// named just "Weeknd" does not satisfy "The Weeknd" either way around
	// here because containment only runs event-contains-target.
	targets := []models.TargetTrack{
		{ID: "t1", Artist: "The Weeknd", Title: "Blinding Lights (Live)"},
	}
	events := []models.ListenEvent{
		{Artist: "The Weeknd", Title: "Blinding Lights"},
	}

	matches := MatchTargets(events, targets)
	assert.Empty(t, matches)
}

func TestMatchTargets_Labels(t *testing.T) {
	targets := []models.TargetTrack{
		{ID: "now", Artist: "NewJeans", Title: "Super Shy"},
		{ID: "dated", Artist: "The Weeknd", Title: "Blinding Lights"},
		{ID: "bare", Artist: "Arctic Monkeys", Title: "Do I Wanna Know?"},
	}
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy", NowPlaying: true},
		{Artist: "The Weeknd", Title: "Blinding Lights", PlayedAt: "20 Feb 2024, 10:15"},
		{Artist: "Arctic Monkeys", Title: "Do I Wanna Know?"},
	}

	matches := MatchTargets(events, targets)
	assert.Equal(t, "Listening Now...", matches["now"])
	assert.Equal(t, "20 Feb 2024, 10:15", matches["dated"])
	assert.Equal(t, "Just now", matches["bare"])
}

func TestMatchTargets_FirstMatchingEventWins(t *testing.T) {
	targets := []models.TargetTrack{{ID: "t1", Artist: "NewJeans", Title: "Super Shy"}}
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy", NowPlaying: true},
		{Artist: "NewJeans", Title: "Super Shy", PlayedAt: "yesterday"},
	}

	matches := MatchTargets(events, targets)
	assert.Equal(t, "Listening Now...", matches["t1"])
}

func TestProgress_Rounding(t *testing.T) {
	targets := []models.TargetTrack{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	matches := map[string]string{"a": "x", "b": "y"}

	assert.Equal(t, 67, Progress(matches, targets))
}

func TestProgress_EmptyTargets(t *testing.T) {
	assert.Equal(t, 0, Progress(map[string]string{}, nil))
	assert.False(t, IsComplete(0, nil))
	// Even a hypothetical 100 cannot complete an empty list.
	assert.False(t, IsComplete(100, nil))
}

func TestIsComplete(t *testing.T) {
	targets := []models.TargetTrack{{ID: "a"}}
	assert.True(t, IsComplete(100, targets))
	assert.False(t, IsComplete(99, targets))
}

func newTestProgress(at time.Time, events []models.ListenEvent) (*ProgressService, *testutil.MockStore, *models.User) {
	mock := testutil.NewMockStore()
	logger := &testutil.MockLogger{}
	directory := NewDirectoryService(mock, logger)

	user, err := directory.Register(context.Background(), models.User{
		AppUsername:    "alice",
		Password:       "pw",
		LastFmUsername: "alice_fm",
		LastFmAPIKey:   "key1",
	})
	if err != nil {
		panic(err)
	}

	schedule := &ScheduleService{store: mock, logger: logger, nowFn: func() time.Time { return at }}
	ps := &ProgressService{
		directory: directory,
		schedule:  schedule,
		client:    &testutil.MockHistoryClient{Events: events},
		logger:    logger,
		nowFn:     func() time.Time { return at },
	}
	return ps, mock, user
}

func TestSync_ReportsPerTrackEvidence(t *testing.T) {
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy", NowPlaying: true},
	}
	ps, mock, user := newTestProgress(testMonday, events)
	mock.Doc.Tracks = []models.TargetTrack{
		{ID: "t1", Artist: "NewJeans", Title: "Super Shy"},
		{ID: "t2", Artist: "The Weeknd", Title: "Blinding Lights"},
	}

	report, err := ps.Sync(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, report.Tracks, 2)
	assert.True(t, report.Tracks[0].Listened)
	assert.Equal(t, "Listening Now...", report.Tracks[0].Label)
	assert.False(t, report.Tracks[1].Listened)
	assert.Empty(t, report.Tracks[1].Label)
	assert.Equal(t, 50, report.Percent)
	assert.False(t, report.Complete)
	assert.False(t, report.CanCheckIn)
}

func TestSync_UnknownUser(t *testing.T) {
	ps, _, _ := newTestProgress(testMonday, nil)
	_, err := ps.Sync(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClaimCheckIn_StampsToday(t *testing.T) {
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy"},
	}
	ps, mock, user := newTestProgress(testMonday, events)
	mock.Doc.Tracks = []models.TargetTrack{{ID: "t1", Artist: "NewJeans", Title: "Super Shy"}}

	updated, err := ps.ClaimCheckIn(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastCheckInDate)
	assert.Equal(t, "19/02/2024", *updated.LastCheckInDate)
}

func TestClaimCheckIn_RejectedWhenIncomplete(t *testing.T) {
	ps, mock, user := newTestProgress(testMonday, nil)
	mock.Doc.Tracks = []models.TargetTrack{{ID: "t1", Artist: "NewJeans", Title: "Super Shy"}}

	_, err := ps.ClaimCheckIn(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrCheckInNotAllowed)
}

func TestClaimCheckIn_SecondClaimSameDayRejected(t *testing.T) {
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy"},
	}
	ps, mock, user := newTestProgress(testMonday, events)
	mock.Doc.Tracks = []models.TargetTrack{{ID: "t1", Artist: "NewJeans", Title: "Super Shy"}}

	_, err := ps.ClaimCheckIn(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = ps.ClaimCheckIn(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrCheckInNotAllowed)
}

func TestClaimCheckIn_AllowedAgainNextDay(t *testing.T) {
	events := []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy"},
	}
	ps, mock, user := newTestProgress(testMonday, events)
	mock.Doc.Tracks = []models.TargetTrack{{ID: "t1", Artist: "NewJeans", Title: "Super Shy"}}

	_, err := ps.ClaimCheckIn(context.Background(), user.ID)
	require.NoError(t, err)

	tuesday := testMonday.AddDate(0, 0, 1)
	ps.nowFn = func() time.Time { return tuesday }
	if sched, ok := ps.schedule.(*ScheduleService); ok {
		sched.nowFn = ps.nowFn
	}

	updated, err := ps.ClaimCheckIn(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "20/02/2024", *updated.LastCheckInDate)
}

func TestSync_HistoryErrorPropagates(t *testing.T) {
	ps, _, user := newTestProgress(testMonday, nil)
	ps.client = &testutil.MockHistoryClient{Err: assert.AnError}

	_, err := ps.Sync(context.Background(), user.ID)
	assert.ErrorIs(t, err, assert.AnError)
}

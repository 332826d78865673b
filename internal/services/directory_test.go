package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguard/internal/models"
	"streamguard/internal/testutil"
)

func newTestDirectory() (DirectoryServiceInterface, *testutil.MockStore) {
	mock := testutil.NewMockStore()
	return NewDirectoryService(mock, &testutil.MockLogger{}), mock
}

func TestRegister_AppendsAndPersists(t *testing.T) {
	ds, mock := newTestDirectory()

	user, err := ds.Register(context.Background(), models.User{AppUsername: "Alice", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.AppUsername)

	require.Len(t, mock.Doc.Users, 1)
	assert.Equal(t, 1, mock.SaveCalls)
}

func TestRegister_DuplicateUsernameCaseInsensitive(t *testing.T) {
	ds, mock := newTestDirectory()

	_, err := ds.Register(context.Background(), models.User{AppUsername: "Alice", Password: "pw"})
	require.NoError(t, err)

	_, err = ds.Register(context.Background(), models.User{AppUsername: "aLiCe", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// Document unchanged by the failed call.
	assert.Len(t, mock.Doc.Users, 1)
	assert.Equal(t, 1, mock.SaveCalls)
}

func TestLogin_MatchesCaseInsensitiveUsernameExactPassword(t *testing.T) {
	ds, _ := newTestDirectory()

	registered, err := ds.Register(context.Background(), models.User{AppUsername: "Alice", Password: "pw", LastFmUsername: "alice_fm"})
	require.NoError(t, err)

	user, err := ds.Login(context.Background(), "ALICE", "pw")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice_fm", user.LastFmUsername)
}

func TestLogin_WrongPassword(t *testing.T) {
	ds, _ := newTestDirectory()
	_, err := ds.Register(context.Background(), models.User{AppUsername: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = ds.Login(context.Background(), "alice", "PW")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	ds, _ := newTestDirectory()
	_, err := ds.Login(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateCheckIn_Idempotent(t *testing.T) {
	ds, mock := newTestDirectory()
	registered, err := ds.Register(context.Background(), models.User{AppUsername: "alice", Password: "pw"})
	require.NoError(t, err)

	first, err := ds.UpdateCheckIn(context.Background(), registered.ID, "01/01/2024")
	require.NoError(t, err)
	require.NotNil(t, first.LastCheckInDate)
	assert.Equal(t, "01/01/2024", *first.LastCheckInDate)

	second, err := ds.UpdateCheckIn(context.Background(), registered.ID, "01/01/2024")
	require.NoError(t, err)
	assert.Equal(t, *first.LastCheckInDate, *second.LastCheckInDate)

	stored := mock.Doc.FindUserByID(registered.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "01/01/2024", *stored.LastCheckInDate)
}

func TestUpdateCheckIn_UnknownUser(t *testing.T) {
	ds, _ := newTestDirectory()
	_, err := ds.UpdateCheckIn(context.Background(), "nope", "01/01/2024")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile_ShallowMerge(t *testing.T) {
	ds, _ := newTestDirectory()
	registered, err := ds.Register(context.Background(), models.User{
		AppUsername:    "alice",
		Password:       "pw",
		LastFmUsername: "alice_fm",
		LastFmAPIKey:   "key1",
	})
	require.NoError(t, err)

	newArtist := "NewJeans"
	updated, err := ds.UpdateProfile(context.Background(), registered.ID, models.ProfileUpdate{
		PersonalArtist: &newArtist,
	})
	require.NoError(t, err)

	assert.Equal(t, "NewJeans", updated.PersonalArtist)
	// Unspecified fields are never removed.
	assert.Equal(t, "alice_fm", updated.LastFmUsername)
	assert.Equal(t, "key1", updated.LastFmAPIKey)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	ds, _ := newTestDirectory()
	_, err := ds.UpdateProfile(context.Background(), "nope", models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestList_EmptyByDefault(t *testing.T) {
	ds, _ := newTestDirectory()
	users, err := ds.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDirectory_StoreErrorsPropagate(t *testing.T) {
	mock := testutil.NewMockStore()
	mock.FetchErr = assert.AnError
	ds := NewDirectoryService(mock, &testutil.MockLogger{})

	_, err := ds.Register(context.Background(), models.User{AppUsername: "alice"})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = ds.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = ds.List(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

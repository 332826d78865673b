package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/store"
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type DirectoryServiceInterface interface {
	Register(ctx context.Context, newUser models.User) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	UpdateCheckIn(ctx context.Context, userID, dateString string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, fields models.ProfileUpdate) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// DirectoryService manages the users collection inside the shared
// document. Every mutation is one fetch-modify-save round trip; the
// document store has no finer-grained API, so a racing writer that saves
// later overwrites this one entirely.
type DirectoryService struct {
	store  store.StoreInterface
	logger providers.Logger
}

func NewDirectoryService(store store.StoreInterface, logger providers.Logger) DirectoryServiceInterface {
	return &DirectoryService{store: store, logger: logger}
}

func sameUsername(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (ds *DirectoryService) Register(ctx context.Context, newUser models.User) (*models.User, error) {
	doc, err := ds.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if sameUsername(doc.Users[i].AppUsername, newUser.AppUsername) {
			return nil, ErrDuplicateUsername
		}
	}
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	doc.Users = append(doc.Users, newUser)
	if err := ds.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	ds.logger.Infof(providers.TypeApp, "Registered user %s", newUser.AppUsername)
	return &newUser, nil
}

func (ds *DirectoryService) Login(ctx context.Context, username, password string) (*models.User, error) {
	doc, err := ds.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		u := doc.Users[i]
		if sameUsername(u.AppUsername, username) && u.Password == password {
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (ds *DirectoryService) UpdateCheckIn(ctx context.Context, userID, dateString string) (*models.User, error) {
	doc, err := ds.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	user := doc.FindUserByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.LastCheckInDate = &dateString
	if err := ds.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	updated := *user
	return &updated, nil
}

func (ds *DirectoryService) UpdateProfile(ctx context.Context, userID string, fields models.ProfileUpdate) (*models.User, error) {
	doc, err := ds.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	user := doc.FindUserByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	// Shallow merge: only provided fields replace stored values.
	if fields.LastFmUsername != nil {
		user.LastFmUsername = *fields.LastFmUsername
	}
	if fields.LastFmAPIKey != nil {
		user.LastFmAPIKey = *fields.LastFmAPIKey
	}
	if fields.PersonalPlaylistURL != nil {
		user.PersonalPlaylistURL = *fields.PersonalPlaylistURL
	}
	if fields.PersonalArtist != nil {
		user.PersonalArtist = *fields.PersonalArtist
	}
	if fields.PersonalTrack != nil {
		user.PersonalTrack = *fields.PersonalTrack
	}
	if err := ds.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	updated := *user
	return &updated, nil
}

func (ds *DirectoryService) List(ctx context.Context) ([]models.User, error) {
	doc, err := ds.store.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

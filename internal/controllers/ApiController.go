package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"streamguard/internal/history"
	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/services"
	"streamguard/internal/store"
	"streamguard/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger        providers.Logger
	directory     services.DirectoryServiceInterface
	schedule      services.ScheduleServiceInterface
	progress      services.ProgressServiceInterface
	store         store.StoreInterface
	local         *store.LocalStore
	cache         providers.CacheProviderInterface
	cloudEndpoint string
}

func NewApiController(conf *structures.Config, logger providers.Logger, directory services.DirectoryServiceInterface, schedule services.ScheduleServiceInterface, progress services.ProgressServiceInterface, docStore store.StoreInterface, local *store.LocalStore, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:        logger,
		directory:     directory,
		schedule:      schedule,
		progress:      progress,
		store:         docStore,
		local:         local,
		cache:         cache,
		cloudEndpoint: conf.Cloud.Endpoint,
	}
}

func (ac *ApiController) respondJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the failure taxonomy onto HTTP statuses. Upstream
// failures (cloud, history, network) surface as 502 with the classified
// message so the caller can decide whether to retry.
func (ac *ApiController) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrCheckInNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrCloudAuthFailed),
		errors.Is(err, store.ErrCloudNotFound),
		errors.Is(err, store.ErrCloudSyncFailed),
		errors.Is(err, store.ErrNetwork),
		errors.Is(err, history.ErrHistoryAPI),
		errors.Is(err, history.ErrNetwork):
		status = http.StatusBadGateway
	}
	ac.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.respondError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// --- directory ---

type registerRequest struct {
	AppUsername    string `json:"appUsername" validate:"required|minLen:2"`
	Password       string `json:"password" validate:"required|minLen:1"`
	LastFmUsername string `json:"lastFmUsername"`
	LastFmAPIKey   string `json:"lastFmApiKey"`
}

func (ac *ApiController) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if v := validate.Struct(payload); !v.Validate() {
		ac.respondJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return
	}
	user, err := ac.directory.Register(r.Context(), models.User{
		AppUsername:    payload.AppUsername,
		Password:       payload.Password,
		LastFmUsername: payload.LastFmUsername,
		LastFmAPIKey:   payload.LastFmAPIKey,
	})
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *ApiController) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	user, err := ac.directory.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, user)
}

func (ac *ApiController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := ac.directory.List(r.Context())
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, users)
}

type profileRequest struct {
	UserID string               `json:"userId"`
	Fields models.ProfileUpdate `json:"fields"`
}

func (ac *ApiController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profileRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	user, err := ac.directory.UpdateProfile(r.Context(), payload.UserID, payload.Fields)
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, user)
}

// --- progress ---

func (ac *ApiController) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	report, err := ac.progress.Sync(r.Context(), userID)
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, report)
}

type checkInRequest struct {
	UserID string `json:"userId"`
}

func (ac *ApiController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var payload checkInRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	user, err := ac.progress.ClaimCheckIn(r.Context(), payload.UserID)
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, user)
}

// --- schedule ---

func (ac *ApiController) GetToday(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "today", func() (any, error) {
		return ac.schedule.ResolveToday(r.Context())
	})
}

func (ac *ApiController) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := ac.schedule.GetSchedule(r.Context())
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, schedule)
}

func (ac *ApiController) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var payload models.WeeklySchedule
	if !ac.decode(w, r, &payload) {
		return
	}
	if err := ac.schedule.SaveSchedule(r.Context(), payload); err != nil {
		ac.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type copyDayRequest struct {
	SourceIndex int `json:"sourceIndex" validate:"min:0|max:6"`
	TargetIndex int `json:"targetIndex" validate:"min:0|max:6"`
}

func (ac *ApiController) CopySchedule(w http.ResponseWriter, r *http.Request) {
	var payload copyDayRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if v := validate.Struct(payload); !v.Validate() {
		ac.respondJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return
	}
	if err := ac.schedule.CopyFromDay(r.Context(), payload.SourceIndex, payload.TargetIndex); err != nil {
		ac.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin pin ---

type pinResponse struct {
	Pin string `json:"pin"`
}

func (ac *ApiController) GetPin(w http.ResponseWriter, r *http.Request) {
	pin, err := ac.schedule.GetAdminPin(r.Context())
	if err != nil {
		ac.respondError(w, err)
		return
	}
	ac.respondJSON(w, http.StatusOK, pinResponse{Pin: pin})
}

type pinRequest struct {
	Pin string `json:"pin" validate:"required|minLen:4"`
}

func (ac *ApiController) SetPin(w http.ResponseWriter, r *http.Request) {
	var payload pinRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if v := validate.Struct(payload); !v.Validate() {
		ac.respondJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return
	}
	if err := ac.schedule.SetAdminPin(r.Context(), payload.Pin); err != nil {
		ac.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- cloud connection ---

type cloudStatusResponse struct {
	Mode   string              `json:"mode"`
	Config *models.CloudConfig `json:"config,omitempty"`
}

func (ac *ApiController) GetCloud(w http.ResponseWriter, r *http.Request) {
	ac.respondJSON(w, http.StatusOK, cloudStatusResponse{
		Mode:   ac.store.Mode().String(),
		Config: ac.store.CloudConfig(),
	})
}

func (ac *ApiController) SaveCloud(w http.ResponseWriter, r *http.Request) {
	var payload models.CloudConfig
	if !ac.decode(w, r, &payload) {
		return
	}
	if err := ac.store.SaveCloudConfig(&payload); err != nil {
		ac.respondError(w, err)
		return
	}
	ac.logger.Infof(providers.TypeSync, "Cloud config saved, mode is now %s", ac.store.Mode())
	w.WriteHeader(http.StatusNoContent)
}

type verifyRequest struct {
	BinID  string `json:"binId" validate:"required"`
	APIKey string `json:"apiKey" validate:"required"`
}

func (ac *ApiController) VerifyCloud(w http.ResponseWriter, r *http.Request) {
	var payload verifyRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	if v := validate.Struct(payload); !v.Validate() {
		ac.respondJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return
	}
	result := store.VerifyConnection(r.Context(), ac.cloudEndpoint, payload.BinID, payload.APIKey)
	ac.respondJSON(w, http.StatusOK, result)
}

// --- backup ---

func (ac *ApiController) ExportBackup(w http.ResponseWriter, r *http.Request) {
	ac.respondJSON(w, http.StatusOK, ac.local.ExportBackup())
}

func (ac *ApiController) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var payload store.Backup
	if !ac.decode(w, r, &payload) {
		return
	}
	if err := ac.local.ImportBackup(&payload); err != nil {
		ac.respondError(w, err)
		return
	}
	ac.logger.Infof(providers.TypeApp, "Backup imported")
	w.WriteHeader(http.StatusNoContent)
}

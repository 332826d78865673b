package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/structures"
)

var (
	ErrHistoryAPI = errors.New("history api error")
	ErrNetwork    = errors.New("network error")
)

type ClientInterface interface {
	FetchRecent(ctx context.Context, username, apiKey string) ([]models.ListenEvent, error)
}

// Client fetches a user's recent scrobbles from the last.fm style
// listening-history endpoint.
type Client struct {
	endpoint string
	limit    int
	client   *http.Client
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	limit := conf.History.Limit
	if limit <= 0 {
		limit = 50
	}
	return &Client{
		endpoint: conf.History.Endpoint,
		limit:    limit,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchRecent returns the user's recent listening events, newest first.
// An empty apiKey yields the fixed placeholder history so the rest of the
// pipeline stays exercisable without external credentials.
func (c *Client) FetchRecent(ctx context.Context, username, apiKey string) ([]models.ListenEvent, error) {
	if apiKey == "" {
		c.logger.Warnf(providers.TypeHistory, "No API key for %s, serving placeholder history", username)
		return PlaceholderHistory(), nil
	}

	query := url.Values{}
	query.Set("method", "user.getrecenttracks")
	query.Set("user", username)
	query.Set("api_key", apiKey)
	query.Set("format", "json")
	query.Set("limit", strconv.Itoa(c.limit))

	start := time.Now()
	resp, err := c.get(ctx, c.endpoint+"?"+query.Encode())
	c.metrics.ObserveHistoryDuration(time.Since(start))
	if err != nil {
		return nil, err
	}

	// The service reports some failures as an error payload under HTTP
	// 200, so the body is checked before the status code.
	var parsed models.LfmResponse
	if jsonErr := json.Unmarshal(resp.body, &parsed); jsonErr == nil {
		if parsed.Error != 0 {
			return nil, fmt.Errorf("%w: %s", ErrHistoryAPI, parsed.Message)
		}
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrHistoryAPI, resp.status)
	}
	if parsed.RecentTracks == nil {
		return []models.ListenEvent{}, nil
	}

	events := make([]models.ListenEvent, 0, len(parsed.RecentTracks.Track))
	for i := range parsed.RecentTracks.Track {
		events = append(events, parsed.RecentTracks.Track[i].Event())
	}
	return events, nil
}

type rawResponse struct {
	status int
	body   []byte
}

func (c *Client) get(ctx context.Context, url string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	return &rawResponse{status: resp.StatusCode, body: body}, nil
}

// PlaceholderHistory is the deterministic no-credentials fallback. It
// covers two of the built-in default tracks plus one unrelated play.
func PlaceholderHistory() []models.ListenEvent {
	return []models.ListenEvent{
		{Artist: "NewJeans", Title: "Super Shy", Album: "Get Up"},
		{Artist: "The Weeknd", Title: "Blinding Lights", Album: "After Hours"},
		{Artist: "Random Artist", Title: "Random Song", Album: "Random Album"},
	}
}

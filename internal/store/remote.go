package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"streamguard/internal/models"
	"streamguard/internal/providers"
)

const masterKeyHeader = "X-Master-Key"

// recordEnvelope is the GET response wrapper of the remote bin service.
type recordEnvelope struct {
	Record *models.AppDocument `json:"record"`
}

// RemoteStore talks to a jsonbin-style whole-document endpoint:
// GET <endpoint>/<binId>/latest and PUT <endpoint>/<binId>, both carrying
// the access key as a header. There is no partial mutation API, so every
// save replaces the entire document (last writer wins).
type RemoteStore struct {
	endpoint string
	binID    string
	apiKey   string
	client   *http.Client
	logger   providers.Logger
}

func NewRemoteStore(endpoint, binID, apiKey string, logger providers.Logger) *RemoteStore {
	return &RemoteStore{
		endpoint: endpoint,
		binID:    binID,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrCloudAuthFailed
	case code == http.StatusNotFound:
		return ErrCloudNotFound
	default:
		return ErrCloudSyncFailed
	}
}

func (s *RemoteStore) FetchDocument(ctx context.Context) (*models.AppDocument, error) {
	url := s.endpoint + "/" + s.binID + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(masterKeyHeader, s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warnf(providers.TypeSync, "Remote fetch returned %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: fetch status %d", classifyStatus(resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}

	var envelope recordEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %s", ErrCloudSyncFailed, err)
	}
	doc := envelope.Record
	if doc == nil {
		doc = &models.AppDocument{}
	}
	doc.Normalize()
	return doc, nil
}

func (s *RemoteStore) SaveDocument(ctx context.Context, doc *models.AppDocument) error {
	doc.Normalize()
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	url := s.endpoint + "/" + s.binID
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set(masterKeyHeader, s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warnf(providers.TypeSync, "Remote save returned %d", resp.StatusCode)
		return fmt.Errorf("%w: save status %d", classifyStatus(resp.StatusCode), resp.StatusCode)
	}
	return nil
}

// VerifyResult is what a connection check reports back to the caller.
type VerifyResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// VerifyConnection performs a lightweight GET against a candidate bin
// without persisting any state. Used before new credentials are committed.
func VerifyConnection(ctx context.Context, endpoint, binID, apiKey string) VerifyResult {
	probe := NewRemoteStore(endpoint, binID, apiKey, providers.NopLogger())
	_, err := probe.FetchDocument(ctx)
	if err == nil {
		return VerifyResult{Valid: true}
	}
	return VerifyResult{Valid: false, Message: err.Error()}
}

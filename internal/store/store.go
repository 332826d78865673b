package store

import (
	"context"
	"time"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/structures"
)

// StoreInterface is the single read/write surface of the document store.
// The document is always read and written whole; concurrent writers
// overwrite each other at document granularity.
type StoreInterface interface {
	FetchDocument(ctx context.Context) (*models.AppDocument, error)
	SaveDocument(ctx context.Context, doc *models.AppDocument) error
	Mode() models.CloudMode
	CloudConfig() *models.CloudConfig
	SaveCloudConfig(cfg *models.CloudConfig) error
}

// Store selects the backend per call: remote when a usable CloudConfig is
// resolvable, local otherwise. A successful remote save is mirrored into
// the local store so the app keeps working if connectivity drops right
// after.
type Store struct {
	local    *LocalStore
	fallback *models.CloudConfig
	endpoint string
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewStore(conf *structures.Config, local *LocalStore, logger providers.Logger, metrics providers.MetricsProviderInterface) StoreInterface {
	var fallback *models.CloudConfig
	if conf.Cloud.BinID != "" || conf.Cloud.APIKey != "" {
		fallback = &models.CloudConfig{
			Enabled: conf.Cloud.Enabled,
			BinID:   conf.Cloud.BinID,
			APIKey:  conf.Cloud.APIKey,
		}
	}
	return &Store{
		local:    local,
		fallback: fallback,
		endpoint: conf.Cloud.Endpoint,
		logger:   logger,
		metrics:  metrics,
	}
}

// resolve re-reads the local override on every call so a config change
// committed through the API takes effect without a restart.
func (s *Store) resolve() (models.CloudMode, models.CloudConfig) {
	return models.ResolveCloudMode(s.local.CloudConfig(), s.fallback)
}

func (s *Store) Mode() models.CloudMode {
	mode, _ := s.resolve()
	return mode
}

func (s *Store) remote(cfg models.CloudConfig) *RemoteStore {
	return NewRemoteStore(s.endpoint, cfg.BinID, cfg.APIKey, s.logger)
}

func (s *Store) FetchDocument(ctx context.Context) (*models.AppDocument, error) {
	mode, cfg := s.resolve()
	if mode != models.CloudModeRemote {
		return s.local.FetchDocument()
	}
	start := time.Now()
	doc, err := s.remote(cfg).FetchDocument(ctx)
	s.metrics.ObserveCloudSyncDuration("fetch", time.Since(start))
	if err != nil {
		s.metrics.IncCloudSyncErrors("fetch")
	}
	return doc, err
}

func (s *Store) SaveDocument(ctx context.Context, doc *models.AppDocument) error {
	mode, cfg := s.resolve()
	if mode != models.CloudModeRemote {
		return s.local.SaveDocument(doc)
	}
	start := time.Now()
	err := s.remote(cfg).SaveDocument(ctx, doc)
	s.metrics.ObserveCloudSyncDuration("save", time.Since(start))
	if err != nil {
		s.metrics.IncCloudSyncErrors("save")
		return err
	}
	// Mirror after a confirmed remote write only.
	if err := s.local.SaveDocument(doc); err != nil {
		s.logger.Warnf(providers.TypeSync, "Local mirror after remote save failed: %s", err)
	}
	return nil
}

func (s *Store) CloudConfig() *models.CloudConfig {
	return s.local.CloudConfig()
}

func (s *Store) SaveCloudConfig(cfg *models.CloudConfig) error {
	return s.local.SaveCloudConfig(cfg)
}

package snapshot

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"streamguard/internal/providers"
	"streamguard/internal/snapshot/interfaces"
	"streamguard/internal/store"
	"streamguard/internal/structures"
)

// Scheduler periodically archives the local document. It reads the local
// store directly: the remote backend already mirrors every save locally,
// so the snapshot never needs a network round trip.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	local    *store.LocalStore
	archiver *Archiver
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Snapshot.SaveInterval

	s.cron.AddFunc(gron.Every(interval*time.Second), func() {
		if err := s.Persist(); err != nil {
			return
		}
		s.logger.Infof(providers.TypeApp, "Snapshot written to %s", s.config.Snapshot.Dir)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore seeds an empty local store from the last snapshot. A populated
// store always wins over the snapshot.
func (s *Scheduler) Restore() error {
	if !s.local.Empty() {
		return nil
	}
	doc, err := s.archiver.Load()
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Restoring local store from snapshot")
	return s.local.SaveDocument(doc)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	doc, err := s.local.FetchDocument()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while reading document for snapshot: %s", err)
		return err
	}

	start := time.Now()
	err = s.archiver.Save(doc)
	s.metrics.ObserveSnapshotDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, local *store.LocalStore, archiver *Archiver) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		metrics:  metrics,
		local:    local,
		archiver: archiver,
	}
}

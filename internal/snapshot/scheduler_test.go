package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguard/internal/store"
	"streamguard/internal/structures"
	"streamguard/internal/testutil"
)

type schedulerMetrics struct {
	snapshotObservations int
}

func (m *schedulerMetrics) IncRequestsTotal(_ string, _ int)                   {}
func (m *schedulerMetrics) ObserveRequestDuration(_ string, _ time.Duration)   {}
func (m *schedulerMetrics) IncCacheHits()                                      {}
func (m *schedulerMetrics) IncCacheMisses()                                    {}
func (m *schedulerMetrics) ObserveCloudSyncDuration(_ string, _ time.Duration) {}
func (m *schedulerMetrics) IncCloudSyncErrors(_ string)                        {}
func (m *schedulerMetrics) ObserveHistoryDuration(_ time.Duration)             {}
func (m *schedulerMetrics) ObserveSnapshotDuration(_ time.Duration)            { m.snapshotObservations++ }

func newTestScheduler(t *testing.T) (*Scheduler, *store.LocalStore, *Archiver) {
	t.Helper()
	conf := &structures.Config{
		Store:    structures.StoreConfig{Dir: t.TempDir()},
		Snapshot: structures.SnapshotConfig{Dir: t.TempDir(), SaveInterval: 60},
	}
	logger := &testutil.MockLogger{}
	local, err := store.NewLocalStore(conf, logger)
	require.NoError(t, err)
	archiver := NewArchiver(conf, &testutil.MockCompressor{}, logger)
	scheduler := NewScheduler(conf, logger, &schedulerMetrics{}, local, archiver).(*Scheduler)
	return scheduler, local, archiver
}

func TestScheduler_PersistWritesSnapshot(t *testing.T) {
	scheduler, local, archiver := newTestScheduler(t)
	require.NoError(t, local.SaveDocument(snapshotDocument()))

	require.NoError(t, scheduler.Persist())

	loaded, err := archiver.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "4321", loaded.AdminPin)
	assert.Len(t, loaded.Users, 1)
}

func TestScheduler_PersistObservesDuration(t *testing.T) {
	scheduler, local, _ := newTestScheduler(t)
	require.NoError(t, local.SaveDocument(snapshotDocument()))

	metrics := &schedulerMetrics{}
	scheduler.metrics = metrics
	require.NoError(t, scheduler.Persist())
	assert.Equal(t, 1, metrics.snapshotObservations)
}

func TestScheduler_RestoreSeedsEmptyStore(t *testing.T) {
	scheduler, local, archiver := newTestScheduler(t)
	require.NoError(t, archiver.Save(snapshotDocument()))
	require.True(t, local.Empty())

	require.NoError(t, scheduler.Restore())

	assert.False(t, local.Empty())
	doc, err := local.FetchDocument()
	require.NoError(t, err)
	assert.Equal(t, "4321", doc.AdminPin)
}

func TestScheduler_RestoreSkipsPopulatedStore(t *testing.T) {
	scheduler, local, archiver := newTestScheduler(t)

	stale := snapshotDocument()
	stale.AdminPin = "0000"
	require.NoError(t, archiver.Save(stale))

	live := snapshotDocument()
	require.NoError(t, local.SaveDocument(live))

	require.NoError(t, scheduler.Restore())

	doc, err := local.FetchDocument()
	require.NoError(t, err)
	// The populated store wins over the snapshot.
	assert.Equal(t, "4321", doc.AdminPin)
}

func TestScheduler_RestoreNoSnapshotNoop(t *testing.T) {
	scheduler, local, _ := newTestScheduler(t)
	require.NoError(t, scheduler.Restore())
	assert.True(t, local.Empty())
}

func TestScheduler_InitAndStop(t *testing.T) {
	scheduler, local, _ := newTestScheduler(t)
	require.NoError(t, local.SaveDocument(snapshotDocument()))

	scheduler.Init()
	scheduler.Stop()
}

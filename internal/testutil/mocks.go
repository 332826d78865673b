package testutil

import (
	"context"
	"sync"

	"streamguard/internal/models"
	"streamguard/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockStore implements store.StoreInterface against an in-memory document.
type MockStore struct {
	mu          sync.Mutex
	Doc         *models.AppDocument
	CloudCfg    *models.CloudConfig
	CloudMode   models.CloudMode
	FetchErr    error
	SaveErr     error
	FetchCalls  int
	SaveCalls   int
	SavedCopies []models.AppDocument
}

func NewMockStore() *MockStore {
	doc := &models.AppDocument{}
	doc.Normalize()
	return &MockStore{Doc: doc}
}

func (m *MockStore) FetchDocument(_ context.Context) (*models.AppDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	// Hand out a copy; a real backend never aliases its own state.
	copied := *m.Doc
	copied.Users = append([]models.User(nil), m.Doc.Users...)
	copied.Tracks = append([]models.TargetTrack(nil), m.Doc.Tracks...)
	copied.WeeklySchedule = models.WeeklySchedule{}
	for k, v := range m.Doc.WeeklySchedule {
		copied.WeeklySchedule[k] = v
	}
	return &copied, nil
}

func (m *MockStore) SaveDocument(_ context.Context, doc *models.AppDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Doc = doc
	m.SavedCopies = append(m.SavedCopies, *doc)
	return nil
}

func (m *MockStore) Mode() models.CloudMode {
	return m.CloudMode
}

func (m *MockStore) CloudConfig() *models.CloudConfig {
	return m.CloudCfg
}

func (m *MockStore) SaveCloudConfig(cfg *models.CloudConfig) error {
	m.CloudCfg = cfg
	return nil
}

// MockCompressor passes data through unchanged.
type MockCompressor struct {
	CompressCalls   int
	DecompressCalls int
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	m.CompressCalls++
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	m.DecompressCalls++
	return val, nil
}

func (m *MockCompressor) Close() {}

// MockHistoryClient implements history.ClientInterface.
type MockHistoryClient struct {
	Events []models.ListenEvent
	Err    error
	Calls  int
}

func (m *MockHistoryClient) FetchRecent(_ context.Context, _, _ string) ([]models.ListenEvent, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Events, nil
}

package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
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

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
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

// Entries returns the recorded entries of one level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockFetcher serves canned pages keyed by URL. Unknown URLs fail with
// ErrUnknownURL.
type MockFetcher struct {
	mu      sync.Mutex
	Pages   map[string]extraction.Page
	Errors  map[string]error
	FetchFn func(ctx context.Context, url string) (extraction.Page, error)
	Calls   []string
	Closed  bool
}

var ErrUnknownURL = errors.New("unknown url")

func (m *MockFetcher) Fetch(ctx context.Context, url string) (extraction.Page, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, url)
	fn := m.FetchFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, url)
	}
	if err, ok := m.Errors[url]; ok {
		return nil, err
	}
	if page, ok := m.Pages[url]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownURL, url)
}

func (m *MockFetcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockClock implements providers.ClockProviderInterface with a settable time.
type MockClock struct {
	mu  sync.Mutex
	T   time.Time
	Loc *time.Location
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{T: t, Loc: t.Location()}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.T
}

func (c *MockClock) Location() *time.Location {
	return c.Loc
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.T = t
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu           sync.Mutex
	Collections  map[string]int // "entity:outcome"
	StrategyWins map[string]int // "metric:strategy"
	Values       map[string]float64
	StoreCalls   int
	PassCalls    int
	CacheHits    int
	CacheMisses  int
	CacheDropped int
	Requests     int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Collections:  make(map[string]int),
		StrategyWins: make(map[string]int),
		Values:       make(map[string]float64),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncCacheInvalidations(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheDropped += n
}
func (m *MockMetrics) IncCollections(entity, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Collections[entity+":"+outcome]++
}
func (m *MockMetrics) IncStrategyWins(metric, strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StrategyWins[metric+":"+strategy]++
}
func (m *MockMetrics) SetMetricValue(entity, metric string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values[entity+":"+metric] = value
}
func (m *MockMetrics) ObserveStoreDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreCalls++
}
func (m *MockMetrics) ObservePassDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PassCalls++
}

// MockHistoryStore keeps histories in memory.
type MockHistoryStore struct {
	mu        sync.Mutex
	Histories map[string]models.EntityHistory
	MergeErr  error
	LoadErr   error
	Merges    int
}

func NewMockHistoryStore() *MockHistoryStore {
	return &MockHistoryStore{Histories: make(map[string]models.EntityHistory)}
}

func (s *MockHistoryStore) Merge(entityID string, result *models.ExtractionResult, now time.Time) (*models.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MergeErr != nil {
		return nil, s.MergeErr
	}
	s.Merges++
	h, ok := s.Histories[entityID]
	if !ok {
		h = make(models.EntityHistory)
		s.Histories[entityID] = h
	}
	h.Merge(result, now)
	return h[now.Format(models.DateLayout)], nil
}

func (s *MockHistoryStore) Load(entityID string) (models.EntityHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	h, ok := s.Histories[entityID]
	if !ok {
		return make(models.EntityHistory), nil
	}
	return h, nil
}

func (s *MockHistoryStore) LoadAll(entityID string) (models.EntityHistory, error) {
	return s.Load(entityID)
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Delete(keys ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, key := range keys {
		if _, ok := m.Data[key]; ok {
			delete(m.Data, key)
			n++
		}
	}
	return n
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

package testutil

import (
	"context"
	"promod/internal/providers"
	"sync"
	"time"
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

// Count returns how many entries were logged at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockOptions implements providers.OptionProviderInterface in memory.
type MockOptions struct {
	mu   sync.Mutex
	Data map[string]string
	Err  error
}

func NewMockOptions() *MockOptions {
	return &MockOptions{Data: make(map[string]string)}
}

func (m *MockOptions) GetOption(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	v, ok := m.Data[name]
	if !ok {
		return "", providers.ErrOptionNotFound
	}
	return v, nil
}

func (m *MockOptions) UpdateOption(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Data[name] = value
	return nil
}

func (m *MockOptions) DeleteOption(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Data[name]
	delete(m.Data, name)
	return ok, nil
}

type transientEntry struct {
	value    []byte
	expireAt time.Time
}

// MockTransients implements providers.TransientProviderInterface with a
// controllable clock.
type MockTransients struct {
	mu   sync.Mutex
	data map[string]transientEntry
	Now  time.Time
	TTLs map[string]time.Duration
	// SetErr makes every Set fail without storing anything.
	SetErr error
}

func NewMockTransients() *MockTransients {
	return &MockTransients{
		data: make(map[string]transientEntry),
		Now:  time.Unix(1_700_000_000, 0),
		TTLs: make(map[string]time.Duration),
	}
}

// Advance moves the mock clock forward.
func (m *MockTransients) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Now = m.Now.Add(d)
}

func (m *MockTransients) live(key string) (transientEntry, bool) {
	e, ok := m.data[key]
	if !ok || !m.Now.Before(e.expireAt) {
		return transientEntry{}, false
	}
	return e, true
}

func (m *MockTransients) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	return e.value, ok
}

func (m *MockTransients) GetWithExpiration(key string) ([]byte, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	return e.value, e.expireAt, ok
}

func (m *MockTransients) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = transientEntry{value: value, expireAt: m.Now.Add(ttl)}
	m.TTLs[key] = ttl
	return nil
}

func (m *MockTransients) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live(key)
	delete(m.data, key)
	return ok
}

func (m *MockTransients) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if _, ok := m.live(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (m *MockTransients) Len() int64 {
	return int64(len(m.Keys()))
}

// MockHttpClient implements providers.HttpClientProviderInterface and records
// requested URLs.
type MockHttpClient struct {
	mu       sync.Mutex
	Status   int
	Body     []byte
	Err      error
	Requests []string
}

func (m *MockHttpClient) Get(_ context.Context, url string) (*providers.HttpResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, url)
	if m.Err != nil {
		return nil, m.Err
	}
	return &providers.HttpResponse{StatusCode: m.Status, Body: m.Body}, nil
}

func (m *MockHttpClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockMetrics implements providers.MetricsProviderInterface with counters.
type MockMetrics struct {
	mu             sync.Mutex
	Fetches        map[string]int
	NoticesEmitted int
	CacheHits      int
	CacheMisses    int
	Persisted      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Fetches: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveFetchDuration(_ time.Duration)             {}
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
func (m *MockMetrics) IncFetchTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches[result]++
}
func (m *MockMetrics) AddNoticesEmitted(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NoticesEmitted += count
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

// MockCompressor implements the snapshot compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
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

func (m *MockCompressor) Close() {}

package testutil

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/providers"
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

// Count returns how many entries were logged at level.
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

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts the
// domain events tests care about.
type MockMetrics struct {
	mu                 sync.Mutex
	Invocations        map[string]int
	Denied             map[string]int
	CompletionFailures map[string]int
	Segments           int
	Persisted          int
	Documents          map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Invocations:        map[string]int{},
		Denied:             map[string]int{},
		CompletionFailures: map[string]int{},
		Documents:          map[string]int{},
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (m *MockMetrics) IncCacheHits()                                       {}
func (m *MockMetrics) IncCacheMisses()                                     {}
func (m *MockMetrics) ObserveCompletionDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncFeatureInvocations(feature, tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invocations[feature+"/"+tier]++
}

func (m *MockMetrics) IncUsageDenied(feature string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Denied[feature]++
}

func (m *MockMetrics) IncCompletionFailures(feature string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompletionFailures[feature]++
}

func (m *MockMetrics) AddTranscriptionSegments(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Segments += count
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetDocumentsTotal(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Documents[kind] = count
}

// MockCompressor implements the backup compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
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

// Sent is one message captured by MockResponder.
type Sent struct {
	ChannelID string
	Text      string
	Embed     *models.Embed
	File      *models.File
}

// MockResponder implements platform.Responder in memory.
type MockResponder struct {
	mu   sync.Mutex
	Sent []Sent
	Err  error
}

func (m *MockResponder) SendText(_ context.Context, channelID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Sent{ChannelID: channelID, Text: text})
	return nil
}

func (m *MockResponder) SendEmbed(_ context.Context, channelID string, embed models.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Sent{ChannelID: channelID, Embed: &embed})
	return nil
}

func (m *MockResponder) SendFile(_ context.Context, channelID, content string, file models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Sent{ChannelID: channelID, Text: content, File: &file})
	return nil
}

func (m *MockResponder) Messages() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sent, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// Texts returns the text of every plain or file message.
func (m *MockResponder) Texts() []string {
	var out []string
	for _, s := range m.Messages() {
		if s.Text != "" {
			out = append(out, s.Text)
		}
	}
	return out
}

// MockGuildDirectory implements platform.GuildDirectory from static maps.
type MockGuildDirectory struct {
	Owners    map[string]string
	Roles     map[string][]string
	Names     map[string]string
	Channels  map[string]string
	Guilds    int
	OwnerErr  error
	MemberErr error
	Calls     int
}

func (m *MockGuildDirectory) GuildOwnerID(_ context.Context, guildID string) (string, error) {
	m.Calls++
	if m.OwnerErr != nil {
		return "", m.OwnerErr
	}
	owner, ok := m.Owners[guildID]
	if !ok {
		return "", ErrNotFound
	}
	return owner, nil
}

func (m *MockGuildDirectory) MemberRoleIDs(_ context.Context, guildID, userID string) ([]string, error) {
	if m.MemberErr != nil {
		return nil, m.MemberErr
	}
	roles, ok := m.Roles[guildID+"/"+userID]
	if !ok {
		return nil, ErrNotFound
	}
	return roles, nil
}

func (m *MockGuildDirectory) GuildName(_ context.Context, guildID string) (string, error) {
	name, ok := m.Names[guildID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (m *MockGuildDirectory) ChannelName(_ context.Context, channelID string) (string, error) {
	name, ok := m.Channels[channelID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (m *MockGuildDirectory) GuildCount() int {
	return m.Guilds
}

package services

import (
	"context"
	"errors"
	"reactbot/internal/models"
	"reactbot/internal/storage"
	"reactbot/internal/structures"
	"reactbot/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type testStores struct {
	docs     storage.DocumentStoreInterface
	users    storage.UserStoreInterface
	servers  storage.ServerStoreInterface
	activity storage.ActivityStoreInterface
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	conf := &structures.Config{Persistence: structures.Persistence{DataDir: t.TempDir()}}
	docs, err := storage.NewFileStore(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	return &testStores{
		docs:     docs,
		users:    storage.NewUserStore(docs, &testutil.MockLogger{}),
		servers:  storage.NewServerStore(docs),
		activity: storage.NewActivityStore(docs),
	}
}

func testConfig() *structures.Config {
	return &structures.Config{
		Settings: structures.Settings{
			FreeUserDailyLimit: 5,
			CommunityServerID:  "community",
			PremiumRoleID:      "premium-role",
			OwnerUserID:        "owner",
		},
		Usage: structures.UsageConfig{TimezoneOffset: 9 * time.Hour},
		OpenAI: structures.OpenAIConfig{
			APIKey:       "sk-test",
			FreeModel:    "free-model",
			PremiumModel: "premium-model",
		},
	}
}

// fixedPolicy returns a UsagePolicy whose clock is pinned to at.
func fixedPolicy(conf *structures.Config, at time.Time) *UsagePolicy {
	p := NewUsagePolicy(conf).(*UsagePolicy)
	p.now = func() time.Time { return at }
	return p
}

// fakeChat implements ChatCompleter with a canned reply.
type fakeChat struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakeFetcher serves attachment bodies from memory.
type fakeFetcher struct {
	bodies map[string][]byte
}

func (f *fakeFetcher) Read(_ context.Context, url string, limit int64) ([]byte, error) {
	b, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("not found")
	}
	if int64(len(b)) > limit {
		return nil, errors.New("too large")
	}
	return b, nil
}

func (f *fakeFetcher) Download(_ context.Context, _, _ string) (int64, error) {
	return 0, errors.New("not supported")
}

// fakeSource implements platform.MessageSource.
type fakeSource struct {
	messages map[string]*models.Message
}

func (f *fakeSource) FetchMessage(_ context.Context, _, messageID string) (*models.Message, error) {
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return m, nil
}

type fakeShortener struct {
	calls []string
}

func (f *fakeShortener) Shorten(_ context.Context, longURL string) string {
	f.calls = append(f.calls, longURL)
	return "https://is.gd/abc"
}

type fakeRenderer struct {
	captions []string
	err      error
}

func (f *fakeRenderer) Render(caption string) ([]byte, error) {
	f.captions = append(f.captions, caption)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("jpeg"), nil
}

type fakeTranscriber struct {
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, _ *models.Message) error {
	f.calls++
	return nil
}

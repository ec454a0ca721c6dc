package services

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/storage"
	"reactbot/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	stores      *testStores
	chat        *fakeChat
	shortener   *fakeShortener
	cache       *testutil.MockCache
	directory   *testutil.MockGuildDirectory
	responder   *testutil.MockResponder
	metrics     *testutil.MockMetrics
	transcriber *fakeTranscriber
	activity    ActivityServiceInterface
	dispatcher  DispatcherInterface
}

func newDispatcherFixture(t *testing.T, messages map[string]*models.Message) *dispatcherFixture {
	t.Helper()
	conf := testConfig()
	logger := &testutil.MockLogger{}
	f := &dispatcherFixture{
		stores:      newTestStores(t),
		chat:        &fakeChat{reply: "explained"},
		shortener:   &fakeShortener{},
		cache:       testutil.NewMockCache(),
		responder:   &testutil.MockResponder{},
		metrics:     testutil.NewMockMetrics(),
		transcriber: &fakeTranscriber{},
	}

	policy := fixedPolicy(conf, policyNow)
	directory := newDirectory()
	directory.Guilds = 3
	f.directory = directory
	f.activity = NewActivityService(f.stores.activity, policy, logger)

	completion := NewCompletionService(conf, f.chat, logger, f.metrics)
	registry := NewFeatureRegistry(f.responder, completion, newPromptResolver(t, nil), f.shortener, &fakeRenderer{}, f.transcriber, logger)

	f.dispatcher = NewDispatcher(
		f.stores.servers,
		f.stores.users,
		NewTierResolver(conf, directory, f.cache, logger),
		policy,
		NewPayloadBuilder(&fakeFetcher{}, logger),
		f.activity,
		&fakeSource{messages: messages},
		f.responder,
		directory,
		registry,
		logger,
		f.metrics,
	)
	f.dispatcher.SetSelfID("bot")

	_, err := f.stores.servers.Update("g1", func(s *models.ServerConfig, _ bool) (bool, error) {
		s.Activate("c1")
		return true, nil
	})
	require.NoError(t, err)
	return f
}

func (f *dispatcherFixture) seedUser(t *testing.T, userID string, count int) {
	t.Helper()
	_, err := f.stores.users.Update(userID, func(p *models.UserProfile, _ bool) (bool, error) {
		p.LastUsedDate = "2025-06-01"
		p.DailyUsageCount = count
		return true, nil
	})
	require.NoError(t, err)
}

func trigger(emoji, userID, channelID, messageID string) models.Trigger {
	return models.Trigger{TraceID: "t", Emoji: emoji, GuildID: "g1", ChannelID: channelID, MessageID: messageID, UserID: userID, Username: "name-" + userID}
}

func TestDispatcher_FreeUserReachesLimit(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{
		"m1": {ID: "m1", Content: "launch notes"},
		"m2": {ID: "m2", Content: "another post"},
	})
	f.chat.reply = `{"content":"short summary"}`
	f.seedUser(t, "u1", 4)

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("👍", "u1", "c1", "m1")))

	profile, err := f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 5, profile.DailyUsageCount)
	assert.Equal(t, models.TierFree, profile.Status)
	assert.Equal(t, "name-u1", profile.Username)
	assert.Equal(t, 1, f.chat.calls())

	require.Len(t, f.shortener.calls, 1)
	assert.Equal(t, IntentURL("short summary"), f.shortener.calls[0])
	sent := f.responder.Messages()
	require.NotEmpty(t, sent)
	embed := sent[len(sent)-1].Embed
	require.NotNil(t, embed)
	assert.Equal(t, "short summary", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "https://is.gd/abc")
	assert.Equal(t, 1, f.metrics.Invocations["repost/free"])

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("👍", "u1", "c1", "m2")))

	profile, err = f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 5, profile.DailyUsageCount)
	assert.Equal(t, 1, f.chat.calls())
	assert.Len(t, f.shortener.calls, 1)
	texts := f.responder.Texts()
	assert.Contains(t, texts[len(texts)-1], "daily limit")
	assert.Equal(t, 1, f.metrics.Denied["repost"])

	dau, err := f.activity.DAU("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, dau)
	day, err := f.activity.Day("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, day.TotalActions)
	assert.Equal(t, 3, day.ServerCount)
}

func TestDispatcher_PremiumUserIsNotLimited(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1", Content: "hello"}})
	f.seedUser(t, "patron", 50)

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("❓", "patron", "c1", "m1")))

	profile, err := f.stores.users.Get("patron")
	require.NoError(t, err)
	assert.Equal(t, 51, profile.DailyUsageCount)
	assert.Equal(t, models.TierPremium, profile.Status)
	assert.Equal(t, "premium-model", f.chat.requests[0].Model)
}

func TestDispatcher_IgnoredTriggers(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1", Content: "hello"}})

	tests := []models.Trigger{
		trigger("❓", "bot", "c1", "m1"),
		trigger("❓", "", "c1", "m1"),
		trigger("🍣", "u1", "c1", "m1"),
		trigger("❓", "u1", "inactive", "m1"),
	}
	for _, tr := range tests {
		require.NoError(t, f.dispatcher.Process(context.Background(), tr))
	}

	assert.Empty(t, f.responder.Messages())
	_, err := f.stores.users.Get("u1")
	assert.Error(t, err)
}

func TestDispatcher_EmptyPayloadStillConsumesUsage(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1"}})

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("✏️", "u1", "c1", "m1")))

	assert.Equal(t, []string{noticeEmptyPayload}, f.responder.Texts())
	assert.Zero(t, f.chat.calls())
	profile, err := f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.DailyUsageCount)
}

func TestDispatcher_TranscribeSkipsPayload(t *testing.T) {
	msg := &models.Message{ID: "m1", Attachments: []models.Attachment{{Filename: "voice.m4a", URL: "u"}}}
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": msg})

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("🎤", "u1", "c1", "m1")))
	assert.Equal(t, 1, f.transcriber.calls)
}

func TestDispatcher_DeniedNewUserIsPersisted(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1", Content: "x"}})
	conf := testConfig()
	conf.FreeUserDailyLimit = 0
	d := f.dispatcher.(*Dispatcher)
	d.policy = fixedPolicy(conf, policyNow)

	// a fresh profile starts on an empty date, so the first call passes
	require.NoError(t, d.Process(context.Background(), trigger("❓", "u1", "c1", "m1")))
	require.NoError(t, d.Process(context.Background(), trigger("❓", "u1", "c1", "m1")))

	profile, err := f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.DailyUsageCount)
	assert.Equal(t, 1, f.metrics.Denied["explain"])
}

func TestDispatcher_DispatchRecoversAndWaits(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	d := f.dispatcher.(*Dispatcher)
	d.handlers = FeatureRegistry{models.FeatureExplain: panicHandler{}}
	d.source = &fakeSource{messages: map[string]*models.Message{"m1": {ID: "m1", Content: "x"}}}

	f.dispatcher.Dispatch(context.Background(), models.Trigger{Emoji: "❓", GuildID: "g1", ChannelID: "c1", MessageID: "m1", UserID: "u1"})
	f.dispatcher.Wait()

	profile, err := f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.DailyUsageCount)
}

type panicHandler struct{}

func (panicHandler) Handle(context.Context, *Request) error {
	panic("handler exploded")
}

func TestDispatcher_DeniedTriggerRefreshesProfile(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1", Content: "x"}})
	require.NoError(t, f.stores.docs.Save(storage.Users, "u1",
		[]byte(`{"user_id":"u1","username":"old","last_used_date":"2025-06-01","daily_usage_count":5,"custom_x_post_prompt":"mine"}`)))

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("❓", "u1", "c1", "m1")))

	assert.Equal(t, 1, f.metrics.Denied["explain"])
	raw, err := f.stores.docs.Load(storage.Users, "u1")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "custom_x_post_prompt")
	profile, err := f.stores.users.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 5, profile.DailyUsageCount)
	assert.Equal(t, "name-u1", profile.Username)
	assert.Equal(t, "mine", profile.CustomPromptXPost)
}

func TestDispatcher_DenialForgetsCachedTier(t *testing.T) {
	f := newDispatcherFixture(t, map[string]*models.Message{"m1": {ID: "m1", Content: "x"}})
	f.seedUser(t, "member", 5)

	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("❓", "member", "c1", "m1")))
	assert.Equal(t, 1, f.metrics.Denied["explain"])
	_, cached := f.cache.Get("tier:member")
	assert.False(t, cached)

	f.directory.Roles["community/member"] = []string{"premium-role"}
	f.chat.reply = "explained"
	require.NoError(t, f.dispatcher.Process(context.Background(), trigger("❓", "member", "c1", "m1")))
	assert.Equal(t, 1, f.metrics.Denied["explain"])
	assert.Equal(t, 1, f.metrics.Invocations["explain/premium"])
}

package storage

import (
	"errors"
	"reactbot/internal/models"
	"reactbot/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_UpdateCreatesAndSaves(t *testing.T) {
	docs, _ := newTestFileStore(t)
	users := NewUserStore(docs, &testutil.MockLogger{})

	_, err := users.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := users.Update("1", func(p *models.UserProfile, exists bool) (bool, error) {
		assert.False(t, exists)
		p.Username = "alice"
		p.DailyUsageCount = 2
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	loaded, err := users.Get("1")
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	count, err := users.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserStore_UpdateWithoutPersist(t *testing.T) {
	docs, _ := newTestFileStore(t)
	users := NewUserStore(docs, &testutil.MockLogger{})

	_, err := users.Update("1", func(p *models.UserProfile, exists bool) (bool, error) {
		p.Username = "ghost"
		return false, nil
	})
	require.NoError(t, err)

	_, err = users.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_UpdateErrorSkipsSave(t *testing.T) {
	docs, _ := newTestFileStore(t)
	users := NewUserStore(docs, &testutil.MockLogger{})
	boom := errors.New("boom")

	_, err := users.Update("1", func(p *models.UserProfile, exists bool) (bool, error) {
		return true, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = users.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_MigratesLegacyDocument(t *testing.T) {
	docs, _ := newTestFileStore(t)
	logger := &testutil.MockLogger{}
	users := NewUserStore(docs, logger)

	require.NoError(t, docs.Save(Users, "9", []byte(`{"user_id":"9","custom_x_post_prompt":"old"}`)))

	p, err := users.Update("9", func(p *models.UserProfile, exists bool) (bool, error) {
		assert.True(t, exists)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", p.CustomPromptXPost)
	assert.Equal(t, models.TierFree, p.Status)
	assert.Equal(t, 1, logger.Count("info"))

	raw, err := docs.Load(Users, "9")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"custom_prompt_x_post":"old"`)
	assert.NotContains(t, string(raw), "custom_x_post_prompt")
}

func TestUserStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	docs, _ := newTestFileStore(t)
	users := NewUserStore(docs, &testutil.MockLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Update("1", func(p *models.UserProfile, _ bool) (bool, error) {
				p.DailyUsageCount++
				return true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := users.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.DailyUsageCount)
}

func TestUserStore_UpgradedDocumentIsWrittenBack(t *testing.T) {
	docs, _ := newTestFileStore(t)
	users := NewUserStore(docs, &testutil.MockLogger{})

	require.NoError(t, docs.Save(Users, "9", []byte(`{"user_id":"9","custom_x_post_prompt":"mine"}`)))

	_, err := users.Update("9", func(p *models.UserProfile, exists bool) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	raw, err := docs.Load(Users, "9")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "custom_x_post_prompt")
	assert.Contains(t, string(raw), `"custom_prompt_x_post":"mine"`)
}

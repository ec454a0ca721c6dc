package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureForEmoji(t *testing.T) {
	tests := []struct {
		emoji    string
		expected Feature
	}{
		{"👍", FeatureRepost},
		{"🎤", FeatureTranscribe},
		{"❤️", FeaturePraise},
		{"❤", FeaturePraise},
		{"❓", FeatureExplain},
		{"✏️", FeatureMemo},
		{"✏", FeatureMemo},
		{"📄", FeatureArticle},
	}
	for _, tt := range tests {
		f, ok := FeatureForEmoji(tt.emoji)
		assert.True(t, ok, tt.emoji)
		assert.Equal(t, tt.expected, f, tt.emoji)
	}
}

func TestFeatureForEmoji_Unknown(t *testing.T) {
	_, ok := FeatureForEmoji("🎉")
	assert.False(t, ok)
	_, ok = FeatureForEmoji("")
	assert.False(t, ok)
}

func TestFeature_EmojiRoundTrip(t *testing.T) {
	for _, f := range Features {
		got, ok := FeatureForEmoji(f.Emoji())
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
}

func TestFeature_PromptName(t *testing.T) {
	assert.Equal(t, "x_post.txt", FeatureRepost.PromptName())
	assert.Equal(t, "heart_praise.txt", FeaturePraise.PromptName())
	assert.Equal(t, "", FeatureTranscribe.PromptName())
}

func TestFeature_Overridable(t *testing.T) {
	assert.True(t, FeatureRepost.Overridable())
	assert.True(t, FeatureMemo.Overridable())
	assert.True(t, FeatureArticle.Overridable())
	assert.False(t, FeaturePraise.Overridable())
	assert.False(t, FeatureTranscribe.Overridable())
}

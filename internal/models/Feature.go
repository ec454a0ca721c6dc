package models

import "strings"

type Feature string

const (
	FeatureRepost     Feature = "repost"
	FeatureTranscribe Feature = "transcribe"
	FeaturePraise     Feature = "praise"
	FeatureExplain    Feature = "explain"
	FeatureMemo       Feature = "memo"
	FeatureArticle    Feature = "article"
)

const variationSelector = "\uFE0F"

var emojiFeatures = map[string]Feature{
	"👍": FeatureRepost,
	"🎤": FeatureTranscribe,
	"❤": FeaturePraise,
	"❓": FeatureExplain,
	"✏": FeatureMemo,
	"📄": FeatureArticle,
}

var featureEmoji = map[Feature]string{
	FeatureRepost:     "👍",
	FeatureTranscribe: "🎤",
	FeaturePraise:     "❤️",
	FeatureExplain:    "❓",
	FeatureMemo:       "✏️",
	FeatureArticle:    "📄",
}

// Features lists every reaction feature in help order.
var Features = []Feature{
	FeatureRepost,
	FeatureTranscribe,
	FeaturePraise,
	FeatureExplain,
	FeatureMemo,
	FeatureArticle,
}

// FeatureForEmoji maps a reaction emoji to its feature. The emoji
// presentation selector is ignored so "❤" and "❤️" are the same trigger.
func FeatureForEmoji(emoji string) (Feature, bool) {
	f, ok := emojiFeatures[strings.ReplaceAll(emoji, variationSelector, "")]
	return f, ok
}

func (f Feature) Emoji() string {
	return featureEmoji[f]
}

// PromptName is the template resource name in the prompt directory.
func (f Feature) PromptName() string {
	switch f {
	case FeatureRepost:
		return "x_post.txt"
	case FeaturePraise:
		return "heart_praise.txt"
	case FeatureExplain:
		return "question_explain.txt"
	case FeatureMemo:
		return "pencil_memo.txt"
	case FeatureArticle:
		return "article.txt"
	}
	return ""
}

// Overridable reports whether a user can store a custom prompt for f.
func (f Feature) Overridable() bool {
	return f == FeatureRepost || f == FeatureMemo || f == FeatureArticle
}

func (f Feature) String() string {
	return string(f)
}

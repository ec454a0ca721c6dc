package services

import (
	"os"
	"path/filepath"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"strings"
)

var fallbackPrompts = map[models.Feature]string{
	models.FeatureRepost:  "あなたはDiscordの投稿をX（旧Twitter）用に要約するアシスタントです。140文字以内で簡潔に要約してください。",
	models.FeaturePraise:  "あなたはDiscordメッセージの内容について極めて熱烈に褒めまくるアシスタントです。どんな内容でも強烈に・熱烈に・感動的に褒めてください。ユーザーのモチベーション向上に特化した内容で、800文字以内で褒めてください。",
	models.FeatureExplain: "あなたはDiscordメッセージの内容について詳しく解説するアシスタントです。投稿内容をわかりやすく、丁寧に解説してください。専門用語があれば説明し、背景情報も補足してください。",
	models.FeatureMemo:    "あなたはDiscordメッセージの内容をObsidianメモとして整理するアシスタントです。内容に忠実にメモ化してください。追加情報は加えず、原文を尊重してください。",
	models.FeatureArticle: "あなたはDiscordメッセージの内容をもとに読みやすい記事を書くアシスタントです。見出しを付けて構成し、Markdown形式で丁寧に書いてください。",
}

// outputInstructions is appended to the prompt of features that expect a
// JSON object back.
var outputInstructions = map[models.Feature]string{
	models.FeatureRepost:  "出力は以下のJSON形式で返してください：\n{\"content\": \"X投稿用のテキスト\"}",
	models.FeaturePraise:  "出力は以下のJSON形式で返してください：\n{\"long_praise\": \"400文字以内の熱烈な褒め言葉\", \"short_praise\": \"25文字以内の短い褒め言葉\"}",
	models.FeatureMemo:    "出力は以下のJSON形式で返してください：\n{\"japanese_title\": \"日本語のタイトル\", \"english_title\": \"english_title_for_filename\", \"content\": \"Markdown形式のメモ本文\"}",
	models.FeatureArticle: "出力は以下のJSON形式で返してください：\n{\"title\": \"記事のタイトル\", \"english_title\": \"english_title_for_filename\", \"content\": \"Markdown形式の記事本文\"}",
}

type PromptResolverInterface interface {
	Resolve(feature models.Feature, profile *models.UserProfile) string
	Default(feature models.Feature) string
}

type PromptResolver struct {
	dir    string
	logger providers.Logger
}

func NewPromptResolver(conf *structures.Config, logger providers.Logger) PromptResolverInterface {
	return &PromptResolver{dir: conf.Prompt.Dir, logger: logger}
}

// Resolve picks the user override, then the template file, then the
// built-in prompt, and appends the JSON output instructions once.
func (r *PromptResolver) Resolve(feature models.Feature, profile *models.UserProfile) string {
	prompt := ""
	if profile != nil {
		prompt = profile.CustomPrompt(feature)
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = r.Default(feature)
	} else {
		r.logger.Debugf(providers.TypeFeature, "Using custom %s prompt of user %s", feature, profile.UserID)
	}

	suffix, ok := outputInstructions[feature]
	if !ok || strings.Contains(prompt, suffix) {
		return prompt
	}
	return prompt + "\n\n" + suffix
}

// Default is the template file for feature, or the built-in prompt when
// the file is missing or empty.
func (r *PromptResolver) Default(feature models.Feature) string {
	name := feature.PromptName()
	if name != "" && r.dir != "" {
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err == nil && strings.TrimSpace(string(data)) != "" {
			return string(data)
		}
		if err != nil && !os.IsNotExist(err) {
			r.logger.Warnf(providers.TypeFeature, "Unable to read prompt %s: %s", name, err)
		}
	}
	return fallbackPrompts[feature]
}

package services

import (
	"context"
	"fmt"
	"net/url"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	noticeNotConfigured = "❌ An error occurred. Please contact an administrator."
	noticeEmptyPayload  = "⚠️ The message has no content."
	noticeNeedsAudio    = "⚠️ Please react to a message that has an audio or video file attached."
)

// Request is one metered feature run.
type Request struct {
	TraceID string
	Feature models.Feature
	Trigger models.Trigger
	Message *models.Message
	Profile *models.UserProfile
	Tier    models.Tier
	Payload string
}

type FeatureHandler interface {
	Handle(ctx context.Context, req *Request) error
}

// Transcriber runs the transcription pipeline for one message.
type Transcriber interface {
	Transcribe(ctx context.Context, channelID string, msg *models.Message) error
}

type featureBase struct {
	responder  platform.Responder
	completion CompletionServiceInterface
	prompts    PromptResolverInterface
	logger     providers.Logger
	now        func() time.Time
}

func (b *featureBase) say(ctx context.Context, channelID, text string) {
	if err := b.responder.SendText(ctx, channelID, text); err != nil {
		b.logger.Warnf(providers.TypeFeature, "Unable to post to %s: %s", channelID, err)
	}
}

// complete runs the shared prologue of the LLM features: credential check,
// progress notice, prompt resolution and the request itself. On failure
// the user already got a notice.
func (b *featureBase) complete(ctx context.Context, req *Request, progress, failure string, maxTokens int, temperature float32, structured bool) (string, error) {
	channelID := req.Trigger.ChannelID
	if !b.completion.Configured() {
		b.logger.Errorf(providers.TypeFeature, "[%s] OpenAI API key is not configured", req.TraceID)
		b.say(ctx, channelID, noticeNotConfigured)
		return "", ErrNotConfigured
	}
	if progress != "" {
		b.say(ctx, channelID, progress)
	}

	raw, err := b.completion.Complete(ctx, CompletionRequest{
		Feature:      req.Feature,
		Tier:         req.Tier,
		SystemPrompt: b.prompts.Resolve(req.Feature, req.Profile),
		Payload:      req.Payload,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		Structured:   structured,
	})
	if err != nil {
		b.logger.Errorf(providers.TypeCompletion, "[%s] %s", req.TraceID, err)
		b.say(ctx, channelID, failure)
		return "", err
	}
	return raw, nil
}

type RepostHandler struct {
	featureBase
	shortener ShortenerInterface
}

func (h *RepostHandler) Handle(ctx context.Context, req *Request) error {
	raw, err := h.complete(ctx, req, "✍️ Drafting a post for X, hang on a moment!", "❌ Failed to generate the summary.", 1000, 0.9, true)
	if err != nil {
		return err
	}

	summary := raw
	if fields, ok := ParseStructured(raw); ok {
		summary = FieldOr(fields, "content", raw)
	} else {
		h.logger.Warnf(providers.TypeCompletion, "[%s] Reply is not JSON, using raw text", req.TraceID)
	}

	link := h.shortener.Shorten(ctx, IntentURL(summary))
	h.say(ctx, req.Trigger.ChannelID, "🎉 Done! Click the link below to post it on X.")
	return h.responder.SendEmbed(ctx, req.Trigger.ChannelID, models.Embed{
		Title:       "📝 Summary for X",
		Description: models.Head(summary, 4000),
		Color:       0x1DA1F2,
		Fields: []models.EmbedField{
			{Name: "Post on X 👇", Value: fmt.Sprintf("[Click to post](%s)", link)},
		},
	}.Bounded())
}

// IntentURL is the X compose link prefilled with text.
func IntentURL(text string) string {
	return "https://twitter.com/intent/tweet?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

type PraiseHandler struct {
	featureBase
	renderer PraiseRendererInterface
}

var praiseCaptionFilter = regexp.MustCompile(`[^\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{0021}-\x{007E}]`)

// PraiseCaption keeps kana, kanji and printable ASCII so the caption can be
// drawn with a plain Japanese font.
func PraiseCaption(short string) string {
	if utf8.RuneCountInString(short) > 25 {
		short = string([]rune(short)[:25])
	}
	return praiseCaptionFilter.ReplaceAllString(short, "")
}

const praiseFailure = "❌ Failed to generate the praise message."

// praiseTexts picks the long and short praise from the reply. A missing
// key falls back to the other one, a non-JSON reply to the raw text.
func praiseTexts(raw string) (long, short string, structured bool) {
	fields, ok := ParseStructured(raw)
	if !ok {
		return prefix(raw, 400), prefix(raw, 20), false
	}
	long = strings.TrimSpace(fields["long_praise"])
	short = strings.TrimSpace(fields["short_praise"])
	if long == "" {
		long = short
	}
	if short == "" {
		short = prefix(long, 20)
	}
	return long, short, true
}

func (h *PraiseHandler) Handle(ctx context.Context, req *Request) error {
	raw, err := h.complete(ctx, req, "", praiseFailure, 1500, 0.9, true)
	if err != nil {
		return err
	}

	long, short, structured := praiseTexts(raw)
	if !structured {
		h.logger.Warnf(providers.TypeCompletion, "[%s] Reply is not JSON, using raw text", req.TraceID)
	}
	if long == "" {
		h.logger.Warnf(providers.TypeCompletion, "[%s] Reply has no praise text", req.TraceID)
		h.say(ctx, req.Trigger.ChannelID, praiseFailure)
		return ErrEmptyCompletion
	}

	channelID := req.Trigger.ChannelID
	if err = h.responder.SendText(ctx, channelID, models.Head(long, 400)); err != nil {
		h.logger.Errorf(providers.TypeFeature, "[%s] Praise message failed: %s", req.TraceID, err)
		h.say(ctx, channelID, praiseFailure)
		return err
	}

	image, err := h.renderer.Render(PraiseCaption(short))
	if err == nil {
		err = h.responder.SendFile(ctx, channelID, "", models.File{Name: "praise.jpg", Data: image})
	}
	if err != nil {
		h.logger.Errorf(providers.TypeFeature, "[%s] Praise image failed: %s", req.TraceID, err)
		h.say(ctx, channelID, "※ The image could not be created, but the praise message was sent!")
	}
	return nil
}

type ExplainHandler struct {
	featureBase
}

func (h *ExplainHandler) Handle(ctx context.Context, req *Request) error {
	raw, err := h.complete(ctx, req, "🤔 Let me explain this post in detail, hang on a moment!", "❌ Failed to generate the explanation.", 2000, 0.7, false)
	if err != nil {
		return err
	}

	h.say(ctx, req.Trigger.ChannelID, "💡 Here is the explanation!")
	return h.responder.SendEmbed(ctx, req.Trigger.ChannelID, models.Embed{
		Title:       "🤔 AI explanation",
		Description: models.Head(raw, 1900),
		Color:       0xFF6B35,
		Fields: []models.EmbedField{
			{Name: "📝 Original post", Value: models.Head(req.Payload, 200)},
		},
	}.Bounded())
}

// DocumentHandler covers the memo and article features. Both produce a
// Markdown file named after an English title.
type DocumentHandler struct {
	featureBase
	progress     string
	failure      string
	embedTitle   string
	titleKey     string
	defaultTitle string
	defaultSlug  string
	maxTokens    int
	temperature  float32
	color        int
}

func NewMemoHandler(base featureBase) *DocumentHandler {
	return &DocumentHandler{
		featureBase:  base,
		progress:     "📝 Making a memo, hang on a moment!",
		failure:      "❌ Failed to generate the memo.",
		embedTitle:   "📝 Obsidian memo created",
		titleKey:     "japanese_title",
		defaultTitle: "無題のメモ",
		defaultSlug:  "untitled_memo",
		maxTokens:    2000,
		temperature:  0.3,
		color:        0x7C3AED,
	}
}

func NewArticleHandler(base featureBase) *DocumentHandler {
	return &DocumentHandler{
		featureBase:  base,
		progress:     "📄 Writing an article, hang on a moment!",
		failure:      "❌ Failed to generate the article.",
		embedTitle:   "📄 Article created",
		titleKey:     "title",
		defaultTitle: "無題の記事",
		defaultSlug:  "untitled_article",
		maxTokens:    4000,
		temperature:  0.7,
		color:        0x10B981,
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9\-_]`)

// DocumentFilename is YYYYMMDD_HHMMSS_<slug>.md with the slug reduced to
// [A-Za-z0-9_-].
func DocumentFilename(at time.Time, englishTitle string) string {
	slug := unsafeFilename.ReplaceAllString(englishTitle, "")
	if slug == "" {
		slug = "memo"
	}
	return at.Format("20060102_150405") + "_" + slug + ".md"
}

func (h *DocumentHandler) Handle(ctx context.Context, req *Request) error {
	raw, err := h.complete(ctx, req, h.progress, h.failure, h.maxTokens, h.temperature, true)
	if err != nil {
		return err
	}

	title, slug, content := h.defaultTitle, h.defaultSlug, req.Payload
	if fields, ok := ParseStructured(raw); ok {
		title = FieldOr(fields, h.titleKey, h.defaultTitle)
		slug = FieldOr(fields, "english_title", h.defaultSlug)
		content = FieldOr(fields, "content", req.Payload)
	} else {
		h.logger.Warnf(providers.TypeCompletion, "[%s] Reply is not JSON, keeping the original text", req.TraceID)
	}

	filename := DocumentFilename(h.now(), slug)
	channelID := req.Trigger.ChannelID
	embed := models.Embed{
		Title:       h.embedTitle,
		Description: fmt.Sprintf("**Title**: %s\n**File**: `%s`", title, filename),
		Color:       h.color,
		Fields: []models.EmbedField{
			{Name: "📄 Preview", Value: models.Head(content, 200)},
		},
	}.Bounded()

	if err = h.responder.SendEmbed(ctx, channelID, embed); err != nil {
		h.say(ctx, channelID, h.failure)
		return err
	}
	file := models.File{Name: filename, Data: []byte("# " + title + "\n\n" + content)}
	if err = h.responder.SendFile(ctx, channelID, "📎 File:", file); err != nil {
		h.say(ctx, channelID, h.failure)
		return err
	}
	return nil
}

type TranscribeHandler struct {
	transcriber Transcriber
	responder   platform.Responder
	configured  func() bool
	logger      providers.Logger
}

func (h *TranscribeHandler) Handle(ctx context.Context, req *Request) error {
	channelID := req.Trigger.ChannelID
	if len(req.Message.Attachments) == 0 {
		return h.responder.SendText(ctx, channelID, noticeNeedsAudio)
	}
	if !h.configured() {
		h.logger.Errorf(providers.TypeFeature, "[%s] OpenAI API key is not configured", req.TraceID)
		_ = h.responder.SendText(ctx, channelID, noticeNotConfigured)
		return ErrNotConfigured
	}
	return h.transcriber.Transcribe(ctx, channelID, req.Message)
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

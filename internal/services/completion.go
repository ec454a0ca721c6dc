package services

import (
	"context"
	"errors"
	"fmt"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cast"
)

// ChatCompleter is the part of the OpenAI client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type CompletionRequest struct {
	Feature      models.Feature
	Tier         models.Tier
	SystemPrompt string
	Payload      string
	MaxTokens    int
	Temperature  float32
	Structured   bool
}

type CompletionServiceInterface interface {
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionService struct {
	conf    *structures.Config
	client  ChatCompleter
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewCompletionService(conf *structures.Config, client ChatCompleter, logger providers.Logger, metrics providers.MetricsProviderInterface) CompletionServiceInterface {
	return &CompletionService{conf: conf, client: client, logger: logger, metrics: metrics}
}

func (c *CompletionService) Configured() bool {
	return c.conf.OpenAI.APIKey != ""
}

func (c *CompletionService) model(tier models.Tier) string {
	if tier.IsPremium() {
		return c.conf.OpenAI.PremiumModel
	}
	return c.conf.OpenAI.FreeModel
}

// Complete issues one request and returns the raw text of the first
// choice. There is no retry.
func (c *CompletionService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	model := c.model(req.Tier)
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Payload},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.Structured {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	c.metrics.ObserveCompletionDuration(model, time.Since(start))
	if err != nil {
		c.metrics.IncCompletionFailures(req.Feature.String())
		return "", fmt.Errorf("%s completion with %s: %w", req.Feature, model, err)
	}
	if len(resp.Choices) == 0 {
		c.metrics.IncCompletionFailures(req.Feature.String())
		return "", errors.New("completion returned no choices")
	}

	c.logger.Debugf(providers.TypeCompletion, "%s completion with %s used %d tokens", req.Feature, model, resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

// ParseStructured reads a JSON object reply. Non-string values are coerced
// to text and absent keys are left out of the map. The bool is false when
// raw is not a JSON object; callers then fall back to the raw text.
func ParseStructured(raw string) (map[string]string, bool) {
	doc := map[string]any{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return nil, false
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			b, _ := json.Marshal(v)
			s = string(b)
		}
		out[k] = s
	}
	return out, true
}

// FieldOr returns fields[key] when present and non-empty, else def.
func FieldOr(fields map[string]string, key, def string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return def
}

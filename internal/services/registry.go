package services

import (
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"time"
)

type FeatureRegistry map[models.Feature]FeatureHandler

func NewFeatureRegistry(
	responder platform.Responder,
	completion CompletionServiceInterface,
	prompts PromptResolverInterface,
	shortener ShortenerInterface,
	renderer PraiseRendererInterface,
	transcriber Transcriber,
	logger providers.Logger,
) FeatureRegistry {
	base := featureBase{
		responder:  responder,
		completion: completion,
		prompts:    prompts,
		logger:     logger,
		now:        time.Now,
	}
	return FeatureRegistry{
		models.FeatureRepost:  &RepostHandler{featureBase: base, shortener: shortener},
		models.FeaturePraise:  &PraiseHandler{featureBase: base, renderer: renderer},
		models.FeatureExplain: &ExplainHandler{featureBase: base},
		models.FeatureMemo:    NewMemoHandler(base),
		models.FeatureArticle: NewArticleHandler(base),
		models.FeatureTranscribe: &TranscribeHandler{
			transcriber: transcriber,
			responder:   responder,
			configured:  completion.Configured,
			logger:      logger,
		},
	}
}

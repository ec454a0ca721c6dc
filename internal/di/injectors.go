//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"github.com/sashabaranov/go-openai"
	"reactbot/internal"
	"reactbot/internal/backup"
	"reactbot/internal/controllers"
	"reactbot/internal/discord"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"reactbot/internal/services"
	"reactbot/internal/storage"
	"reactbot/internal/structures"
	"reactbot/internal/transcription"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewOpenAIClient,
		providers.NewHTTPClient,
		wire.Bind(new(providers.ActivitySource), new(services.ActivityServiceInterface)),
		wire.Bind(new(services.ChatCompleter), new(*openai.Client)),
		wire.Bind(new(transcription.AudioTranscriber), new(*openai.Client)),

		storage.NewFileStore,
		storage.NewUserStore,
		storage.NewServerStore,
		storage.NewActivityStore,

		discord.NewClient,
		discord.NewPlatform,
		wire.Bind(new(platform.Responder), new(*discord.Platform)),
		wire.Bind(new(platform.MessageSource), new(*discord.Platform)),
		wire.Bind(new(platform.GuildDirectory), new(*discord.Platform)),
		wire.Bind(new(controllers.GuildCounter), new(*discord.Platform)),
		platform.NewHTTPFetcher,

		services.NewUsagePolicy,
		services.NewTierResolver,
		services.NewPromptResolver,
		services.NewCompletionService,
		services.NewPayloadBuilder,
		services.NewShortener,
		services.NewPraiseRenderer,
		services.NewActivityService,
		services.NewCommandService,
		services.NewFeatureRegistry,
		services.NewDispatcher,

		transcription.NewFFmpeg,
		transcription.NewWhisperClient,
		transcription.NewPipeline,
		wire.Bind(new(services.Transcriber), new(*transcription.Pipeline)),

		backup.NewZstdCompressor,
		backup.NewSnapshotManager,
		backup.NewScheduler,

		discord.NewCommandRouter,
		discord.NewHandler,
		controllers.NewStatsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

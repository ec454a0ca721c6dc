package providers

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"path/filepath"
	"reactbot/internal/structures"
	"strings"
	"time"
)

func setDefaults() {
	viper.SetDefault("free_user_daily_limit", 5)
	viper.SetDefault("usage.timezoneOffset", 9*time.Hour)

	viper.SetDefault("discord.syncCommands", true)

	viper.SetDefault("openai.freeModel", "gpt-4.1-mini")
	viper.SetDefault("openai.premiumModel", "gpt-4.1")
	viper.SetDefault("openai.transcriptionModel", "whisper-1")
	viper.SetDefault("openai.timeout", 180*time.Second)

	viper.SetDefault("prompt.dir", "prompt")

	viper.SetDefault("transcription.language", "ja")
	viper.SetDefault("transcription.maxAudioMB", 100)
	viper.SetDefault("transcription.maxVideoMB", 500)
	viper.SetDefault("transcription.segmentDuration", 10*time.Minute)
	viper.SetDefault("transcription.segmentSizeMB", 20)
	viper.SetDefault("transcription.chunkSize", 1000)
	viper.SetDefault("transcription.chunkDelay", time.Second)
	viper.SetDefault("transcription.ffmpegPath", "ffmpeg")
	viper.SetDefault("transcription.ffprobePath", "ffprobe")

	viper.SetDefault("shortener.endpoint", "https://is.gd/create.php")
	viper.SetDefault("shortener.timeout", 10*time.Second)

	viper.SetDefault("praise.backgroundDir", "images")
	viper.SetDefault("praise.fontSize", 30)

	viper.SetDefault("webServer.host", "0.0.0.0")
	viper.SetDefault("webServer.port", 8080)

	viper.SetDefault("persistence.dataDir", "data")
	viper.SetDefault("persistence.saveInterval", 5*time.Minute)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", 0644)
	viper.SetDefault("logger.dir", "logs")

	viper.SetDefault("cache.ttl", time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if flags.EnvPath != "" {
		if err := godotenv.Load(flags.EnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file: %w", err)
		}
	}

	setDefaults()

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("discord.token", "DISCORD_BOT_TOKEN")
	viper.BindEnv("openai.apiKey", "OPENAI_API_KEY")
	viper.BindEnv("logger.level", "REACTBOT_LOG_LEVEL")
	viper.BindEnv("persistence.dataDir", "REACTBOT_DATA_DIR")
	viper.BindEnv("free_user_daily_limit", "REACTBOT_FREE_DAILY_LIMIT")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if flags.SettingsPath != "" {
		if err = mergeSettings(flags.SettingsPath); err != nil {
			return nil, err
		}
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReactionBot"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// mergeSettings overlays the flat settings.json document. A missing file
// keeps the defaults.
func mergeSettings(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	err := viper.MergeInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to merge settings: %w", err)
	}
	return nil
}

package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath   string
	SettingsPath string
	EnvPath      string
	DebugMode    bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	DataDir      string        `yaml:"dataDir" validate:"required"`
	BackupPath   string        `yaml:"backupPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

// Settings mirrors the flat settings.json document, so its keys are squashed
// into the root of Config.
type Settings struct {
	FreeUserDailyLimit int    `yaml:"free_user_daily_limit" mapstructure:"free_user_daily_limit" validate:"min:0"`
	CommunityServerID  string `yaml:"community_server_id" mapstructure:"community_server_id"`
	PremiumRoleID      string `yaml:"premium_role_id" mapstructure:"premium_role_id"`
	OwnerUserID        string `yaml:"owner_user_id" mapstructure:"owner_user_id"`
}

type UsageConfig struct {
	TimezoneOffset time.Duration `yaml:"timezoneOffset"`
}

type DiscordConfig struct {
	Token        string `yaml:"token" validate:"required"`
	TestGuildID  string `yaml:"testGuildId"`
	SyncCommands bool   `yaml:"syncCommands"`
}

type OpenAIConfig struct {
	APIKey             string        `yaml:"apiKey"`
	BaseURL            string        `yaml:"baseUrl"`
	FreeModel          string        `yaml:"freeModel" validate:"required"`
	PremiumModel       string        `yaml:"premiumModel" validate:"required"`
	TranscriptionModel string        `yaml:"transcriptionModel" validate:"required"`
	Timeout            time.Duration `yaml:"timeout"`
}

type PromptConfig struct {
	Dir string `yaml:"dir"`
}

type TranscriptionConfig struct {
	Language        string        `yaml:"language"`
	MaxAudioMB      int64         `yaml:"maxAudioMB" validate:"min:1"`
	MaxVideoMB      int64         `yaml:"maxVideoMB" validate:"min:1"`
	SegmentDuration time.Duration `yaml:"segmentDuration"`
	SegmentSizeMB   int64         `yaml:"segmentSizeMB" validate:"min:1"`
	ChunkSize       int           `yaml:"chunkSize" validate:"min:1"`
	ChunkDelay      time.Duration `yaml:"chunkDelay"`
	FFmpegPath      string        `yaml:"ffmpegPath"`
	FFprobePath     string        `yaml:"ffprobePath"`
	TempDir         string        `yaml:"tempDir"`
}

type ShortenerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PraiseConfig struct {
	BackgroundDir string `yaml:"backgroundDir"`
	FontPath      string `yaml:"fontPath"`
	FontSize      int    `yaml:"fontSize"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName       string
	Debug         bool
	Path          string
	Settings      `mapstructure:",squash"`
	Usage         UsageConfig         `yaml:"usage"`
	Discord       DiscordConfig       `yaml:"discord"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Prompt        PromptConfig        `yaml:"prompt"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Shortener     ShortenerConfig     `yaml:"shortener"`
	Praise        PraiseConfig        `yaml:"praise"`
	WebServer     Server              `yaml:"webServer"`
	Persistence   Persistence         `yaml:"persistence"`
	Logger        LoggerConfig        `yaml:"logger"`
	Cache         CacheConfig         `yaml:"cache"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

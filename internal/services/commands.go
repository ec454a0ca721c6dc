package services

import (
	"context"
	"errors"
	"fmt"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"reactbot/internal/storage"
	"reactbot/internal/structures"
	"strings"
)

const MaxCustomPromptLength = 2000

type CommandServiceInterface interface {
	Help() models.Embed
	Activate(ctx context.Context, guildID, channelID, channelName string) (string, error)
	Deactivate(ctx context.Context, guildID, channelID, channelName string) (string, error)
	Status(ctx context.Context, guildID string) (models.Embed, error)
	PromptOverride(userID string, feature models.Feature) (string, error)
	SetPromptOverride(userID, username string, feature models.Feature, prompt string) (string, error)
	IsOwner(userID string) bool
	Stats(ctx context.Context, userID string) (models.Embed, error)
}

type CommandService struct {
	conf     *structures.Config
	servers  storage.ServerStoreInterface
	users    storage.UserStoreInterface
	activity ActivityServiceInterface
	guilds   platform.GuildDirectory
	logger   providers.Logger
}

func NewCommandService(
	conf *structures.Config,
	servers storage.ServerStoreInterface,
	users storage.UserStoreInterface,
	activity ActivityServiceInterface,
	guilds platform.GuildDirectory,
	logger providers.Logger,
) CommandServiceInterface {
	return &CommandService{
		conf:     conf,
		servers:  servers,
		users:    users,
		activity: activity,
		guilds:   guilds,
		logger:   logger,
	}
}

func (c *CommandService) Help() models.Embed {
	fields := []models.EmbedField{
		{Name: "/help", Value: "Show this help message"},
		{Name: "/activate", Value: "Enable the bot in this channel (administrators only)"},
		{Name: "/deactivate", Value: "Disable the bot in this channel (administrators only)"},
		{Name: "/status", Value: "List the active channels of this server (administrators only)"},
		{Name: "/set_custom_prompt_x_post", Value: "Set your own prompt for X posts (submit blank text to reset)"},
		{Name: "/set_custom_prompt_memo", Value: "Set your own prompt for memos (submit blank text to reset)"},
		{Name: "/set_custom_prompt_article", Value: "Set your own prompt for articles (submit blank text to reset)"},
	}

	var reactions []string
	for _, f := range models.Features {
		reactions = append(reactions, f.Emoji()+" "+featureDescriptions[f])
	}
	fields = append(fields, models.EmbedField{Name: "Reactions", Value: strings.Join(reactions, "\n")})

	return models.Embed{
		Title:       "🤖 Bot commands",
		Description: "Available commands:",
		Color:       0x00FF00,
		Fields:      fields,
	}
}

var featureDescriptions = map[models.Feature]string{
	models.FeatureRepost:     "Turn the message into a post for X",
	models.FeatureTranscribe: "Transcribe the attached audio or video",
	models.FeaturePraise:     "Praise the message with text and an image",
	models.FeatureExplain:    "Explain the message in detail",
	models.FeatureMemo:       "Turn the message into an Obsidian memo",
	models.FeatureArticle:    "Write an article from the message",
}

func (c *CommandService) Activate(ctx context.Context, guildID, channelID, channelName string) (string, error) {
	guildName, err := c.guilds.GuildName(ctx, guildID)
	if err != nil {
		c.logger.Debugf(providers.TypeCommand, "Guild name of %s unavailable: %s", guildID, err)
	}

	added := false
	_, err = c.servers.Update(guildID, func(s *models.ServerConfig, exists bool) (bool, error) {
		s.ServerID = guildID
		renamed := guildName != "" && s.ServerName != guildName
		if renamed {
			s.ServerName = guildName
		}
		added = s.Activate(channelID)
		return added || renamed || !exists, nil
	})
	if err != nil {
		return "", fmt.Errorf("activate %s/%s: %w", guildID, channelID, err)
	}

	if !added {
		return fmt.Sprintf("ℹ️ This channel (%s) is already active.", channelName), nil
	}
	c.logger.Infof(providers.TypeCommand, "Activated channel %s in server %s", channelID, guildID)
	return fmt.Sprintf("✅ The bot is now active in this channel (%s).", channelName), nil
}

func (c *CommandService) Deactivate(ctx context.Context, guildID, channelID, channelName string) (string, error) {
	removed := false
	_, err := c.servers.Update(guildID, func(s *models.ServerConfig, exists bool) (bool, error) {
		if !exists {
			return false, ErrServerUnknown
		}
		removed = s.Deactivate(channelID)
		return removed, nil
	})
	if errors.Is(err, ErrServerUnknown) {
		return "❌ No server data found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("deactivate %s/%s: %w", guildID, channelID, err)
	}

	if !removed {
		return fmt.Sprintf("ℹ️ This channel (%s) is already inactive.", channelName), nil
	}
	c.logger.Infof(providers.TypeCommand, "Deactivated channel %s in server %s", channelID, guildID)
	return fmt.Sprintf("✅ The bot is now disabled in this channel (%s).", channelName), nil
}

func (c *CommandService) Status(ctx context.Context, guildID string) (models.Embed, error) {
	embed := models.Embed{Title: "🔍 Bot status", Color: 0x0099FF}

	cfg, err := c.servers.Get(guildID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return embed, err
	}

	value := "None"
	if cfg != nil && len(cfg.ActiveChannelIDs) > 0 {
		lines := make([]string, 0, len(cfg.ActiveChannelIDs))
		for _, id := range cfg.ActiveChannelIDs {
			name, err := c.guilds.ChannelName(ctx, id)
			if err != nil {
				lines = append(lines, fmt.Sprintf("Unknown channel (ID: %s)", id))
				continue
			}
			lines = append(lines, "#"+name)
		}
		value = strings.Join(lines, "\n")
	}
	embed.Fields = []models.EmbedField{{Name: "Active channels", Value: value}}
	return embed.Bounded(), nil
}

// PromptOverride is the stored override, empty for unknown users.
func (c *CommandService) PromptOverride(userID string, feature models.Feature) (string, error) {
	p, err := c.users.Get(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.CustomPrompt(feature), nil
}

// SetPromptOverride stores the trimmed prompt. Blank input clears it.
func (c *CommandService) SetPromptOverride(userID, username string, feature models.Feature, prompt string) (string, error) {
	if !feature.Overridable() {
		return "", fmt.Errorf("feature %s has no custom prompt", feature)
	}
	prompt = strings.TrimSpace(prompt)
	if len([]rune(prompt)) > MaxCustomPromptLength {
		prompt = string([]rune(prompt)[:MaxCustomPromptLength])
	}

	_, err := c.users.Update(userID, func(p *models.UserProfile, exists bool) (bool, error) {
		p.UserID = userID
		if username != "" {
			p.Username = username
		}
		p.SetCustomPrompt(feature, prompt)
		return true, nil
	})
	if err != nil {
		return "", fmt.Errorf("save %s prompt for %s: %w", feature, userID, err)
	}

	if prompt == "" {
		c.logger.Infof(providers.TypeCommand, "User %s cleared the %s prompt", userID, feature)
		return "✅ Custom prompt disabled. The default prompt will be used.", nil
	}
	c.logger.Infof(providers.TypeCommand, "User %s set the %s prompt: %s", userID, feature, models.Head(prompt, 100))
	return "✅ Custom prompt saved!", nil
}

func (c *CommandService) IsOwner(userID string) bool {
	return c.conf.OwnerUserID != "" && userID == c.conf.OwnerUserID
}

func (c *CommandService) Stats(ctx context.Context, userID string) (models.Embed, error) {
	if !c.IsOwner(userID) {
		return models.Embed{}, ErrForbidden
	}

	today := c.activity.Today()
	day, err := c.activity.Day(today)
	if err != nil {
		return models.Embed{}, err
	}
	mau, err := c.activity.MAU(today)
	if err != nil {
		return models.Embed{}, err
	}
	users, err := c.users.Count()
	if err != nil {
		return models.Embed{}, err
	}

	return models.Embed{
		Title: "📊 Bot statistics",
		Color: 0xF1C40F,
		Fields: []models.EmbedField{
			{Name: "DAU (" + today + ")", Value: fmt.Sprint(day.DAU()), Inline: true},
			{Name: "MAU (30 days)", Value: fmt.Sprint(mau), Inline: true},
			{Name: "Actions today", Value: fmt.Sprint(day.TotalActions), Inline: true},
			{Name: "Servers", Value: fmt.Sprint(c.guilds.GuildCount()), Inline: true},
			{Name: "Registered users", Value: fmt.Sprint(users), Inline: true},
		},
	}, nil
}

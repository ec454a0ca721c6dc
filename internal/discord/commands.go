package discord

import (
	"reactbot/internal/models"
	"strings"

	"github.com/disgoorg/disgo/discord"
)

const (
	CommandHelp       = "help"
	CommandActivate   = "activate"
	CommandDeactivate = "deactivate"
	CommandStatus     = "status"
	CommandStats      = "stats"

	promptModalPrefix = "prompt:"
	promptInputID     = "prompt"
	promptInputLabel  = "Prompt"
)

// promptCommands maps each custom prompt command to its feature.
var promptCommands = map[string]models.Feature{
	"set_custom_prompt_x_post":  models.FeatureRepost,
	"set_custom_prompt_memo":    models.FeatureMemo,
	"set_custom_prompt_article": models.FeatureArticle,
}

// Commands is the slash command set registered with the platform.
func Commands() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{Name: CommandHelp, Description: "Show the bot commands"},
		discord.SlashCommandCreate{Name: CommandActivate, Description: "Enable the bot in this channel (administrators only)"},
		discord.SlashCommandCreate{Name: CommandDeactivate, Description: "Disable the bot in this channel (administrators only)"},
		discord.SlashCommandCreate{Name: CommandStatus, Description: "Show the active channels of this server (administrators only)"},
		discord.SlashCommandCreate{Name: "set_custom_prompt_x_post", Description: "Set your own prompt for X posts"},
		discord.SlashCommandCreate{Name: "set_custom_prompt_memo", Description: "Set your own prompt for memos"},
		discord.SlashCommandCreate{Name: "set_custom_prompt_article", Description: "Set your own prompt for articles"},
		discord.SlashCommandCreate{Name: CommandStats, Description: "Show bot statistics (owner only)"},
	}
}

func PromptModalID(f models.Feature) string {
	return promptModalPrefix + string(f)
}

// ParsePromptModalID is the inverse of PromptModalID. Only features with
// an overridable prompt are accepted.
func ParsePromptModalID(id string) (models.Feature, bool) {
	name, ok := strings.CutPrefix(id, promptModalPrefix)
	if !ok {
		return "", false
	}
	f := models.Feature(name)
	return f, f.Overridable()
}

var promptModalTitles = map[models.Feature]string{
	models.FeatureRepost:  "Custom prompt for X posts",
	models.FeatureMemo:    "Custom prompt for memos",
	models.FeatureArticle: "Custom prompt for articles",
}

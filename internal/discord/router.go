package discord

import (
	"context"
	"errors"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/services"
)

const (
	replyAdminOnly  = "❌ This command can only be used by administrators."
	replyOwnerOnly  = "❌ This command can only be used by the bot owner."
	replyGuildOnly  = "❌ This command can only be used in a server."
	replyFailed     = "❌ An error occurred. Please contact an administrator."
	replyUnknownCmd = "❌ Unknown command."
)

// Invocation is one slash command call, stripped of platform types.
type Invocation struct {
	Name        string
	GuildID     string
	ChannelID   string
	ChannelName string
	UserID      string
	Username    string
	Admin       bool
}

// PromptModal is the text input form of the custom prompt commands.
type PromptModal struct {
	CustomID string
	Title    string
	Value    string
}

// Reply is what a command answers with: a message or a modal form.
type Reply struct {
	Text      string
	Embed     *models.Embed
	Modal     *PromptModal
	Ephemeral bool
}

func textReply(text string, ephemeral bool) Reply {
	return Reply{Text: text, Ephemeral: ephemeral}
}

type CommandRouter struct {
	commands services.CommandServiceInterface
	logger   providers.Logger
}

func NewCommandRouter(commands services.CommandServiceInterface, logger providers.Logger) *CommandRouter {
	return &CommandRouter{commands: commands, logger: logger}
}

func (r *CommandRouter) fail(inv Invocation, err error) Reply {
	r.logger.Errorf(providers.TypeCommand, "/%s by %s failed: %s", inv.Name, inv.UserID, err)
	return textReply(replyFailed, true)
}

// Route answers one slash command.
func (r *CommandRouter) Route(ctx context.Context, inv Invocation) Reply {
	r.logger.Debugf(providers.TypeCommand, "/%s by %s in %s/%s", inv.Name, inv.UserID, inv.GuildID, inv.ChannelID)

	if feature, ok := promptCommands[inv.Name]; ok {
		current, err := r.commands.PromptOverride(inv.UserID, feature)
		if err != nil {
			return r.fail(inv, err)
		}
		return Reply{Modal: &PromptModal{
			CustomID: PromptModalID(feature),
			Title:    promptModalTitles[feature],
			Value:    current,
		}}
	}

	switch inv.Name {
	case CommandHelp:
		embed := r.commands.Help()
		return Reply{Embed: &embed}

	case CommandActivate, CommandDeactivate, CommandStatus:
		if inv.GuildID == "" {
			return textReply(replyGuildOnly, true)
		}
		if !inv.Admin {
			return textReply(replyAdminOnly, true)
		}
		return r.admin(ctx, inv)

	case CommandStats:
		embed, err := r.commands.Stats(ctx, inv.UserID)
		if errors.Is(err, services.ErrForbidden) {
			return textReply(replyOwnerOnly, true)
		}
		if err != nil {
			return r.fail(inv, err)
		}
		return Reply{Embed: &embed, Ephemeral: true}
	}

	return textReply(replyUnknownCmd, true)
}

func (r *CommandRouter) admin(ctx context.Context, inv Invocation) Reply {
	var (
		text string
		err  error
	)
	switch inv.Name {
	case CommandActivate:
		text, err = r.commands.Activate(ctx, inv.GuildID, inv.ChannelID, inv.ChannelName)
	case CommandDeactivate:
		text, err = r.commands.Deactivate(ctx, inv.GuildID, inv.ChannelID, inv.ChannelName)
	default:
		embed, serr := r.commands.Status(ctx, inv.GuildID)
		if serr != nil {
			return r.fail(inv, serr)
		}
		return Reply{Embed: &embed}
	}
	if err != nil {
		return r.fail(inv, err)
	}
	return textReply(text, false)
}

// SubmitPrompt stores the text of a submitted custom prompt form.
func (r *CommandRouter) SubmitPrompt(customID, userID, username, text string) Reply {
	feature, ok := ParsePromptModalID(customID)
	if !ok {
		r.logger.Warnf(providers.TypeCommand, "Unknown modal %q from %s", customID, userID)
		return textReply(replyFailed, true)
	}
	msg, err := r.commands.SetPromptOverride(userID, username, feature, text)
	if err != nil {
		return r.fail(Invocation{Name: string(feature), UserID: userID}, err)
	}
	return textReply(msg, true)
}

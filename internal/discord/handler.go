package discord

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/services"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

// Handler turns gateway events into dispatcher triggers and command replies.
type Handler struct {
	ctx        context.Context
	dispatcher services.DispatcherInterface
	router     *CommandRouter
	logger     providers.Logger
}

func NewHandler(dispatcher services.DispatcherInterface, router *CommandRouter, logger providers.Logger) *Handler {
	return &Handler{
		ctx:        context.Background(),
		dispatcher: dispatcher,
		router:     router,
		logger:     logger,
	}
}

// Attach registers the listeners on client. ctx bounds every dispatched
// trigger and is cancelled on shutdown.
func (h *Handler) Attach(ctx context.Context, client *bot.Client) {
	h.ctx = ctx
	client.EventManager.AddEventListeners(&events.ListenerAdapter{
		OnReady:                         h.onReady,
		OnGuildMessageReactionAdd:       h.onReactionAdd,
		OnApplicationCommandInteraction: h.onCommand,
		OnModalSubmit:                   h.onModalSubmit,
	})
}

func (h *Handler) onReady(e *events.Ready) {
	h.dispatcher.SetSelfID(e.User.ID.String())
	h.logger.Infof(providers.TypeBot, "Logged in as %s (%s), %d guilds", e.User.Username, e.User.ID, len(e.Guilds))
}

func (h *Handler) onReactionAdd(e *events.GuildMessageReactionAdd) {
	h.dispatcher.Dispatch(h.ctx, TriggerFromReaction(e))
}

// TriggerFromReaction extracts the trigger fields of a reaction event.
func TriggerFromReaction(e *events.GuildMessageReactionAdd) models.Trigger {
	t := models.Trigger{
		GuildID:   e.GuildID.String(),
		ChannelID: e.ChannelID.String(),
		MessageID: e.MessageID.String(),
		UserID:    e.UserID.String(),
		Username:  e.Member.User.Username,
	}
	if e.Emoji.Name != nil {
		t.Emoji = *e.Emoji.Name
	}
	return t
}

func (h *Handler) onCommand(e *events.ApplicationCommandInteractionCreate) {
	inv := Invocation{
		Name:        e.Data.CommandName(),
		ChannelID:   e.Channel().ID().String(),
		ChannelName: e.Channel().Name(),
		UserID:      e.User().ID.String(),
		Username:    e.User().Username,
	}
	if guildID := e.GuildID(); guildID != nil {
		inv.GuildID = guildID.String()
	}
	if member := e.Member(); member != nil {
		inv.Admin = member.Permissions.Has(discord.PermissionAdministrator)
	}

	reply := h.router.Route(h.ctx, inv)
	var err error
	if reply.Modal != nil {
		err = e.Modal(ToModal(*reply.Modal))
	} else {
		err = e.CreateMessage(ToMessageCreate(reply))
	}
	if err != nil {
		h.logger.Errorf(providers.TypeCommand, "Reply to /%s failed: %s", inv.Name, err)
	}
}

func (h *Handler) onModalSubmit(e *events.ModalSubmitInteractionCreate) {
	text := e.Data.Text(promptInputID)
	reply := h.router.SubmitPrompt(e.Data.CustomID, e.User().ID.String(), e.User().Username, text)
	if err := e.CreateMessage(ToMessageCreate(reply)); err != nil {
		h.logger.Errorf(providers.TypeCommand, "Reply to modal %s failed: %s", e.Data.CustomID, err)
	}
}

// ToMessageCreate renders a command reply as an interaction message.
func ToMessageCreate(r Reply) discord.MessageCreate {
	msg := discord.MessageCreate{Content: models.Truncate(r.Text, models.MessageContentLimit)}
	if r.Embed != nil {
		msg.Embeds = []discord.Embed{ToEmbed(*r.Embed)}
	}
	if r.Ephemeral {
		msg.Flags = discord.MessageFlagEphemeral
	}
	return msg
}

// ToModal renders the prompt form with the current override prefilled.
func ToModal(m PromptModal) discord.ModalCreate {
	input := discord.NewParagraphTextInput(promptInputID).
		WithRequired(false).
		WithMaxLength(services.MaxCustomPromptLength).
		WithPlaceholder("Leave empty to use the default prompt")
	if m.Value != "" {
		input = input.WithValue(models.Truncate(m.Value, services.MaxCustomPromptLength))
	}
	return discord.ModalCreate{
		CustomID: m.CustomID,
		Title:    m.Title,
		Components: []discord.LayoutComponent{
			discord.NewLabel(promptInputLabel, input),
		},
	}
}

package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"reactbot/internal/models"
	"reactbot/internal/platform"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
)

// Platform implements the platform interfaces on top of a disgo client.
// Lookups try the gateway cache first and fall back to REST.
type Platform struct {
	client *bot.Client
}

func NewPlatform(client *bot.Client) *Platform {
	return &Platform{client: client}
}

func (p *Platform) SendText(_ context.Context, channelID, text string) error {
	return p.send(channelID, discord.MessageCreate{Content: models.Truncate(text, models.MessageContentLimit)})
}

func (p *Platform) SendEmbed(_ context.Context, channelID string, embed models.Embed) error {
	return p.send(channelID, discord.MessageCreate{Embeds: []discord.Embed{ToEmbed(embed)}})
}

func (p *Platform) SendFile(_ context.Context, channelID, content string, file models.File) error {
	return p.send(channelID, discord.MessageCreate{
		Content: content,
		Files:   []*discord.File{discord.NewFile(file.Name, "", bytes.NewReader(file.Data))},
	})
}

func (p *Platform) send(channelID string, msg discord.MessageCreate) error {
	id, err := ParseID(channelID)
	if err != nil {
		return err
	}
	_, err = p.client.Rest.CreateMessage(id, msg)
	return err
}

func (p *Platform) FetchMessage(_ context.Context, channelID, messageID string) (*models.Message, error) {
	cid, err := ParseID(channelID)
	if err != nil {
		return nil, err
	}
	mid, err := ParseID(messageID)
	if err != nil {
		return nil, err
	}
	msg, err := p.client.Rest.GetMessage(cid, mid)
	if err != nil {
		return nil, err
	}
	return ToMessage(msg), nil
}

func (p *Platform) guild(guildID string) (discord.Guild, error) {
	id, err := ParseID(guildID)
	if err != nil {
		return discord.Guild{}, err
	}
	if g, ok := p.client.Caches.Guild(id); ok {
		return g, nil
	}
	g, err := p.client.Rest.GetGuild(id, false)
	if err != nil {
		return discord.Guild{}, err
	}
	return g.Guild, nil
}

func (p *Platform) GuildOwnerID(_ context.Context, guildID string) (string, error) {
	g, err := p.guild(guildID)
	if err != nil {
		return "", err
	}
	return g.OwnerID.String(), nil
}

func (p *Platform) GuildName(_ context.Context, guildID string) (string, error) {
	g, err := p.guild(guildID)
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

func (p *Platform) MemberRoleIDs(_ context.Context, guildID, userID string) ([]string, error) {
	gid, err := ParseID(guildID)
	if err != nil {
		return nil, err
	}
	uid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}

	member, ok := p.client.Caches.Member(gid, uid)
	if !ok {
		m, err := p.client.Rest.GetMember(gid, uid)
		if err != nil {
			var restErr *rest.Error
			if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%s in %s: %w", userID, guildID, platform.ErrMemberNotFound)
			}
			return nil, err
		}
		member = *m
	}

	roles := make([]string, 0, len(member.RoleIDs))
	for _, id := range member.RoleIDs {
		roles = append(roles, id.String())
	}
	return roles, nil
}

func (p *Platform) ChannelName(_ context.Context, channelID string) (string, error) {
	id, err := ParseID(channelID)
	if err != nil {
		return "", err
	}
	if ch, ok := p.client.Caches.Channel(id); ok {
		return ch.Name(), nil
	}
	ch, err := p.client.Rest.GetChannel(id)
	if err != nil {
		return "", err
	}
	return ch.Name(), nil
}

func (p *Platform) GuildCount() int {
	return p.client.Caches.GuildsLen()
}

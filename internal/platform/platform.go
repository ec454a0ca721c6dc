package platform

import (
	"context"
	"errors"
	"reactbot/internal/models"
)

var ErrMemberNotFound = errors.New("member not found")

// Responder posts results back to a channel.
type Responder interface {
	SendText(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed models.Embed) error
	SendFile(ctx context.Context, channelID, content string, file models.File) error
}

type MessageSource interface {
	FetchMessage(ctx context.Context, channelID, messageID string) (*models.Message, error)
}

// GuildDirectory answers membership questions about guilds the bot is in.
type GuildDirectory interface {
	GuildOwnerID(ctx context.Context, guildID string) (string, error)
	// MemberRoleIDs returns ErrMemberNotFound when the user is not a member.
	MemberRoleIDs(ctx context.Context, guildID, userID string) ([]string, error)
	GuildName(ctx context.Context, guildID string) (string, error)
	ChannelName(ctx context.Context, channelID string) (string, error)
	GuildCount() int
}

// AttachmentFetcher downloads attachment bodies.
type AttachmentFetcher interface {
	// Read returns at most limit bytes; larger bodies fail.
	Read(ctx context.Context, url string, limit int64) ([]byte, error)
	Download(ctx context.Context, url, dst string) (int64, error)
}

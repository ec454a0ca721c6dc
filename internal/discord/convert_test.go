package discord

import (
	"reactbot/internal/models"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessage(t *testing.T) {
	guildID := snowflake.ID(10)
	contentType := "text/plain"
	inline := true
	msg := &discord.Message{
		ID:        snowflake.ID(1),
		ChannelID: snowflake.ID(2),
		GuildID:   &guildID,
		Author:    discord.User{ID: snowflake.ID(3)},
		Content:   "hello",
		Attachments: []discord.Attachment{
			{Filename: "notes.txt", URL: "https://cdn/notes.txt", Size: 12, ContentType: &contentType},
			{Filename: "clip.mp4", URL: "https://cdn/clip.mp4", Size: 99},
		},
		Embeds: []discord.Embed{{
			Title:  "title",
			Fields: []discord.EmbedField{{Name: "n", Value: "v", Inline: &inline}},
			Footer: &discord.EmbedFooter{Text: "foot"},
		}},
	}

	out := ToMessage(msg)

	assert.Equal(t, "1", out.ID)
	assert.Equal(t, "2", out.ChannelID)
	assert.Equal(t, "10", out.GuildID)
	assert.Equal(t, "3", out.AuthorID)
	require.Len(t, out.Attachments, 2)
	assert.Equal(t, "text/plain", out.Attachments[0].ContentType)
	assert.Equal(t, int64(99), out.Attachments[1].Size)
	assert.Empty(t, out.Attachments[1].ContentType)
	require.Len(t, out.Embeds, 1)
	assert.Equal(t, "foot", out.Embeds[0].Footer)
	assert.True(t, out.Embeds[0].Fields[0].Inline)
}

func TestToEmbed_Bounded(t *testing.T) {
	embed := models.Embed{
		Title:  strings.Repeat("t", 300),
		Fields: []models.EmbedField{{Name: "n", Value: strings.Repeat("v", 2000), Inline: true}},
	}

	out := ToEmbed(embed)

	assert.Len(t, []rune(out.Title), models.EmbedTitleLimit)
	assert.Len(t, []rune(out.Fields[0].Value), models.EmbedFieldValueLimit)
	require.NotNil(t, out.Fields[0].Inline)
	assert.True(t, *out.Fields[0].Inline)
	assert.Nil(t, out.Footer)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 123456789012345678 ")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", id.String())

	_, err = ParseID("abc")
	assert.Error(t, err)
}

func TestToMessageCreate(t *testing.T) {
	msg := ToMessageCreate(Reply{Text: "hi", Ephemeral: true, Embed: &models.Embed{Title: "e"}})

	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, discord.MessageFlagEphemeral, msg.Flags)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "e", msg.Embeds[0].Title)
}

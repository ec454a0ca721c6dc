package discord

import (
	"reactbot/internal/models"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ToMessage converts a fetched message into the platform independent form.
func ToMessage(m *discord.Message) *models.Message {
	out := &models.Message{
		ID:        m.ID.String(),
		ChannelID: m.ChannelID.String(),
		AuthorID:  m.Author.ID.String(),
		Content:   m.Content,
	}
	if m.GuildID != nil {
		out.GuildID = m.GuildID.String()
	}
	for _, a := range m.Attachments {
		att := models.Attachment{
			Filename: a.Filename,
			URL:      a.URL,
			Size:     int64(a.Size),
		}
		if a.ContentType != nil {
			att.ContentType = *a.ContentType
		}
		out.Attachments = append(out.Attachments, att)
	}
	for _, e := range m.Embeds {
		out.Embeds = append(out.Embeds, FromEmbed(e))
	}
	return out
}

func FromEmbed(e discord.Embed) models.Embed {
	out := models.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, models.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline != nil && *f.Inline})
	}
	if e.Footer != nil {
		out.Footer = e.Footer.Text
	}
	return out
}

func ToEmbed(e models.Embed) discord.Embed {
	e = e.Bounded()
	out := discord.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		inline := f.Inline
		out.Fields = append(out.Fields, discord.EmbedField{Name: f.Name, Value: f.Value, Inline: &inline})
	}
	if e.Footer != "" {
		out.Footer = &discord.EmbedFooter{Text: e.Footer}
	}
	return out
}

// ParseID parses a snowflake kept as a string in the models.
func ParseID(id string) (snowflake.ID, error) {
	return snowflake.Parse(strings.TrimSpace(id))
}

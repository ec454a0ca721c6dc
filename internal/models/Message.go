package models

import (
	"path/filepath"
	"strings"
)

// Trigger is one reaction added to a message.
type Trigger struct {
	TraceID   string
	Emoji     string
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Username  string
}

type Attachment struct {
	Filename    string
	URL         string
	Size        int64
	ContentType string
}

// Ext is the lower-cased extension including the dot.
func (a Attachment) Ext() string {
	return strings.ToLower(filepath.Ext(a.Filename))
}

type Message struct {
	ID          string
	GuildID     string
	ChannelID   string
	AuthorID    string
	Content     string
	Attachments []Attachment
	Embeds      []Embed
}

// File is an outbound attachment built in memory.
type File struct {
	Name string
	Data []byte
}

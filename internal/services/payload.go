package services

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/platform"
	"reactbot/internal/providers"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

const maxTextAttachment = 1 << 20

var textExtensions = []string{
	".txt", ".md", ".markdown", ".csv", ".tsv", ".json", ".log",
	".yaml", ".yml", ".xml", ".html", ".ini", ".toml",
}

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

type PayloadBuilderInterface interface {
	Build(ctx context.Context, msg *models.Message) string
}

type PayloadBuilder struct {
	fetcher platform.AttachmentFetcher
	logger  providers.Logger
}

func NewPayloadBuilder(fetcher platform.AttachmentFetcher, logger providers.Logger) PayloadBuilderInterface {
	return &PayloadBuilder{fetcher: fetcher, logger: logger}
}

// Build joins the message body, flattened embeds and readable text
// attachments, in that order. Unreadable attachments are skipped.
func (b *PayloadBuilder) Build(ctx context.Context, msg *models.Message) string {
	var parts []string
	if s := strings.TrimSpace(msg.Content); s != "" {
		parts = append(parts, s)
	}

	for _, e := range msg.Embeds {
		if s := FlattenEmbed(e); s != "" {
			parts = append(parts, s)
		}
	}

	for _, a := range msg.Attachments {
		if !slices.Contains(textExtensions, a.Ext()) || a.Size > maxTextAttachment {
			continue
		}
		data, err := b.fetcher.Read(ctx, a.URL, maxTextAttachment)
		if err != nil {
			b.logger.Debugf(providers.TypeFeature, "Skipping attachment %s: %s", a.Filename, err)
			continue
		}
		text, ok := DecodeText(data)
		if !ok {
			b.logger.Debugf(providers.TypeFeature, "Skipping attachment %s: unknown encoding", a.Filename)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, "["+a.Filename+"]\n"+text)
		}
	}

	return strings.Join(parts, "\n\n")
}

// FlattenEmbed renders an embed as plain text with links reduced to their
// display text.
func FlattenEmbed(e models.Embed) string {
	var lines []string
	if e.Title != "" {
		lines = append(lines, stripLinks(e.Title))
	}
	if e.Description != "" {
		lines = append(lines, stripLinks(e.Description))
	}
	for _, f := range e.Fields {
		name, value := stripLinks(f.Name), stripLinks(f.Value)
		switch {
		case name != "" && value != "":
			lines = append(lines, name+": "+value)
		case value != "":
			lines = append(lines, value)
		case name != "":
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n")
}

func stripLinks(s string) string {
	return strings.TrimSpace(markdownLink.ReplaceAllString(s, "$1"))
}

// DecodeText accepts UTF-8 and falls back to Shift_JIS.
func DecodeText(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return string(data), true
	}
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) || strings.ContainsRune(string(out), utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

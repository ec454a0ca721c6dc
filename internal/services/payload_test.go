package services

import (
	"context"
	"reactbot/internal/models"
	"reactbot/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestPayloadBuilder_JoinsAllSources(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("こんにちは"))
	require.NoError(t, err)

	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://cdn/notes.txt": []byte("  notes body \n"),
		"https://cdn/sjis.txt":  sjis,
		"https://cdn/bin.txt":   {0xff, 0xfe, 0xfd},
	}}
	msg := &models.Message{
		Content: " hello ",
		Embeds: []models.Embed{{
			Title:       "News",
			Description: "see [the site](https://example.com)",
			Fields:      []models.EmbedField{{Name: "Author", Value: "Ann"}},
		}},
		Attachments: []models.Attachment{
			{Filename: "notes.txt", URL: "https://cdn/notes.txt", Size: 14},
			{Filename: "sjis.TXT", URL: "https://cdn/sjis.txt", Size: int64(len(sjis))},
			{Filename: "bin.txt", URL: "https://cdn/bin.txt", Size: 3},
			{Filename: "photo.png", URL: "https://cdn/photo.png", Size: 10},
			{Filename: "missing.md", URL: "https://cdn/missing.md", Size: 10},
		},
	}

	got := NewPayloadBuilder(fetcher, &testutil.MockLogger{}).Build(context.Background(), msg)
	assert.Equal(t, "hello\n\nNews\nsee the site\nAuthor: Ann\n\n[notes.txt]\nnotes body\n\n[sjis.TXT]\nこんにちは", got)
}

func TestPayloadBuilder_Empty(t *testing.T) {
	b := NewPayloadBuilder(&fakeFetcher{}, &testutil.MockLogger{})
	assert.Empty(t, b.Build(context.Background(), &models.Message{Content: "   "}))
}

func TestPayloadBuilder_SkipsOversizedAttachment(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{"u": []byte("body")}}
	msg := &models.Message{Attachments: []models.Attachment{{Filename: "big.txt", URL: "u", Size: maxTextAttachment + 1}}}
	assert.Empty(t, NewPayloadBuilder(fetcher, &testutil.MockLogger{}).Build(context.Background(), msg))
}

func TestFlattenEmbed_FieldVariants(t *testing.T) {
	e := models.Embed{Fields: []models.EmbedField{{Name: "only name"}, {Value: "only value"}}}
	assert.Equal(t, "only name\nonly value", FlattenEmbed(e))
}

func TestDecodeText(t *testing.T) {
	s, ok := DecodeText([]byte("plain"))
	assert.True(t, ok)
	assert.Equal(t, "plain", s)

	_, ok = DecodeText([]byte{0x82})
	assert.False(t, ok)
}

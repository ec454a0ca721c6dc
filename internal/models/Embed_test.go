package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))

	jp := strings.Repeat("あ", 20)
	out := Truncate(jp, 10)
	assert.Equal(t, 10, utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestHead(t *testing.T) {
	assert.Equal(t, "abc", Head("abc", 5))
	assert.Equal(t, "abcde...", Head("abcdefgh", 5))
}

func TestEmbed_Bounded(t *testing.T) {
	e := Embed{
		Title:       strings.Repeat("t", 300),
		Description: strings.Repeat("d", 5000),
		Fields: []EmbedField{
			{Name: "n", Value: strings.Repeat("v", 2000), Inline: true},
		},
	}

	b := e.Bounded()
	assert.Equal(t, EmbedTitleLimit, utf8.RuneCountInString(b.Title))
	assert.Equal(t, EmbedDescriptionLimit, utf8.RuneCountInString(b.Description))
	assert.True(t, strings.HasSuffix(b.Description, "..."))
	assert.Equal(t, EmbedFieldValueLimit, utf8.RuneCountInString(b.Fields[0].Value))
	assert.True(t, b.Fields[0].Inline)

	assert.Len(t, e.Description, 5000, "original untouched")
}

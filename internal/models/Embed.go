package models

const (
	EmbedTitleLimit       = 256
	EmbedDescriptionLimit = 4096
	EmbedFieldNameLimit   = 256
	EmbedFieldValueLimit  = 1024
	MessageContentLimit   = 2000
)

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Fields      []EmbedField
	Footer      string
}

// Bounded returns a copy with every text part cut to the platform limits.
func (e Embed) Bounded() Embed {
	out := e
	out.Title = Truncate(e.Title, EmbedTitleLimit)
	out.Description = Truncate(e.Description, EmbedDescriptionLimit)
	out.Footer = Truncate(e.Footer, EmbedDescriptionLimit)
	out.Fields = make([]EmbedField, len(e.Fields))
	for i, f := range e.Fields {
		out.Fields[i] = EmbedField{
			Name:   Truncate(f.Name, EmbedFieldNameLimit),
			Value:  Truncate(f.Value, EmbedFieldValueLimit),
			Inline: f.Inline,
		}
	}
	return out
}

// Truncate keeps s within limit characters, replacing the tail with "..."
// when it has to cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// Head returns the first n characters of s and appends "..." when s was
// longer. Unlike Truncate the marker is not counted in n.
func Head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

package transcription

import (
	"context"
	"errors"
	"fmt"
	"reactbot/internal/structures"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudioAPI struct {
	req  openai.AudioRequest
	text string
	err  error
}

func (f *fakeAudioAPI) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.text}, nil
}

func speechConfig() *structures.Config {
	return &structures.Config{
		OpenAI:        structures.OpenAIConfig{TranscriptionModel: "whisper-1"},
		Transcription: structures.TranscriptionConfig{Language: "ja"},
	}
}

func TestWhisperClient_Transcribe(t *testing.T) {
	api := &fakeAudioAPI{text: "こんにちは"}
	text, err := NewWhisperClient(speechConfig(), api).Transcribe(context.Background(), "/tmp/part_0.mp3")

	require.NoError(t, err)
	assert.Equal(t, "こんにちは", text)
	assert.Equal(t, "whisper-1", api.req.Model)
	assert.Equal(t, "ja", api.req.Language)
	assert.Equal(t, "/tmp/part_0.mp3", api.req.FilePath)
}

func TestWhisperClient_TimeoutIsDistinguished(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		timeout bool
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"request timeout status", &openai.APIError{HTTPStatusCode: 408, Message: "timeout"}, true},
		{"server error", &openai.APIError{HTTPStatusCode: 500, Message: "oops"}, false},
		{"other", errors.New("bad audio"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWhisperClient(speechConfig(), &fakeAudioAPI{err: tt.err}).Transcribe(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.timeout, errors.Is(err, ErrTranscriptionTimeout))
		})
	}
}

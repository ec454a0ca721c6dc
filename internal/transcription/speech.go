package transcription

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reactbot/internal/structures"

	"github.com/sashabaranov/go-openai"
)

// AudioTranscriber is the part of the OpenAI client used here.
type AudioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

type SpeechClientInterface interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type WhisperClient struct {
	client   AudioTranscriber
	model    string
	language string
}

func NewWhisperClient(conf *structures.Config, client AudioTranscriber) SpeechClientInterface {
	return &WhisperClient{
		client:   client,
		model:    conf.OpenAI.TranscriptionModel,
		language: conf.Transcription.Language,
	}
}

// Transcribe sends one file. Timeout class failures wrap
// ErrTranscriptionTimeout.
func (w *WhisperClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
		Language: w.language,
	})
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %w", ErrTranscriptionTimeout, err)
		}
		return "", err
	}
	return resp.Text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 408
}

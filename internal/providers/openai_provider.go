package providers

import (
	"net/http"
	"reactbot/internal/structures"

	"github.com/sashabaranov/go-openai"
)

// NewOpenAIClient builds the shared client for chat completions and
// transcriptions. An empty API key still yields a client; callers check
// the key before issuing requests.
func NewOpenAIClient(conf *structures.Config) *openai.Client {
	cfg := openai.DefaultConfig(conf.OpenAI.APIKey)
	if conf.OpenAI.BaseURL != "" {
		cfg.BaseURL = conf.OpenAI.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: conf.OpenAI.Timeout}
	return openai.NewClientWithConfig(cfg)
}

// NewHTTPClient is used for URL shortening and attachment downloads. Only
// the response header wait is bounded since attachment bodies can be large.
func NewHTTPClient(conf *structures.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: conf.Shortener.Timeout,
		},
	}
}

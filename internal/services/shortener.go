package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"strings"
)

type ShortenerInterface interface {
	Shorten(ctx context.Context, longURL string) string
}

type Shortener struct {
	endpoint string
	conf     *structures.Config
	client   *http.Client
	logger   providers.Logger
}

func NewShortener(conf *structures.Config, client *http.Client, logger providers.Logger) ShortenerInterface {
	return &Shortener{endpoint: conf.Shortener.Endpoint, conf: conf, client: client, logger: logger}
}

// Shorten returns longURL unchanged on any failure.
func (s *Shortener) Shorten(ctx context.Context, longURL string) string {
	if s.endpoint == "" {
		return longURL
	}
	if s.conf.Shortener.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.Shortener.Timeout)
		defer cancel()
	}

	form := url.Values{"format": {"simple"}, "url": {longURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		s.logger.Warnf(providers.TypeFeature, "URL shortening request failed: %s", err)
		return longURL
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warnf(providers.TypeFeature, "URL shortening failed: %s", err)
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warnf(providers.TypeFeature, "URL shortening failed with status %d", resp.StatusCode)
		return longURL
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return longURL
	}
	short := strings.TrimSpace(string(body))
	if strings.HasPrefix(short, "Error:") || !strings.HasPrefix(short, "http") {
		s.logger.Warnf(providers.TypeFeature, "URL shortening rejected: %s", short)
		return longURL
	}
	return short
}

package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reactbot/internal/providers"
)

var ErrBodyTooLarge = errors.New("attachment body exceeds limit")

type HTTPFetcher struct {
	client *http.Client
	logger providers.Logger
}

func NewHTTPFetcher(client *http.Client, logger providers.Logger) AttachmentFetcher {
	return &HTTPFetcher{client: client, logger: logger}
}

func (f *HTTPFetcher) open(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp, nil
}

func (f *HTTPFetcher) Read(ctx context.Context, url string, limit int64) ([]byte, error) {
	resp, err := f.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}
	return data, nil
}

func (f *HTTPFetcher) Download(ctx context.Context, url, dst string) (int64, error) {
	resp, err := f.open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(file, resp.Body)
	if err != nil {
		file.Close()
		return n, err
	}
	if err = file.Close(); err != nil {
		return n, err
	}
	f.logger.Debugf(providers.TypeBot, "Downloaded %d bytes to %s", n, dst)
	return n, nil
}

package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

func DownloadFile(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// DownloadToTemp stores the body at url in a temporary file. The returned
// cleanup func removes it.
func DownloadToTemp(ctx context.Context, url string) (string, func(), error) {
	body, err := DownloadFile(ctx, url)
	if err != nil {
		return "", nil, err
	}
	defer body.Close()

	f, err := os.CreateTemp("", "csv-import-*.csv")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write CSV data: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write CSV data: %w", err)
	}

	return f.Name(), cleanup, nil
}

package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Downloader fetches image files over HTTP and writes them to disk.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a downloader with the given per-request timeout.
func NewDownloader(timeout time.Duration, userAgent string) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Download fetches imageURL and writes the body to savePath, creating parent
// directories as needed. Responses that are not images are rejected before
// anything touches disk. Returns the number of bytes written.
func (d *Downloader) Download(ctx context.Context, imageURL, savePath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request for %s: %w", imageURL, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download of %s returned status %d", imageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "image") {
		return 0, fmt.Errorf("%s is not an image (Content-Type: %s)", imageURL, contentType)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create image directory: %w", err)
	}

	file, err := os.Create(savePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", savePath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		os.Remove(savePath)
		return 0, fmt.Errorf("failed to write %s: %w", savePath, err)
	}

	return written, nil
}

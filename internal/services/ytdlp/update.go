package ytdlp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultUpdateTimeout = 300 * time.Second

// Update downloads the latest yt-dlp release over HTTP to the configured
// binary path and marks it executable. The download lands in a temp file
// first so a failed transfer never clobbers a working binary.
func (c *Client) Update(ctx context.Context, httpClient *http.Client) error {
	if c.releaseURL == "" {
		return fmt.Errorf("update yt-dlp: release URL not configured")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultUpdateTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releaseURL, nil)
	if err != nil {
		return fmt.Errorf("update yt-dlp: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download yt-dlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download yt-dlp: unexpected status %d", resp.StatusCode)
	}

	if dir := filepath.Dir(c.binary); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create binary directory: %w", err)
		}
	}

	tempPath := c.binary + ".tmp"
	out, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("write yt-dlp temp file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write yt-dlp: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write yt-dlp: %w", err)
	}
	if err := os.Rename(tempPath, c.binary); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace yt-dlp binary: %w", err)
	}

	// Show the freshly installed version; also proves the binary runs.
	if err := c.exec.Run(ctx, c.binary, []string{"--version"}); err != nil {
		return fmt.Errorf("verify yt-dlp: %w", err)
	}
	return nil
}

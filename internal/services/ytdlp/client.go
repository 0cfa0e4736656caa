package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"subpipe/internal/fileutil"
	"subpipe/internal/services"
)

// Downloader defines the behaviour the acquisition stage needs.
type Downloader interface {
	Fetch(ctx context.Context, url, destDir, baseName string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary     string
	releaseURL string
	exec       Executor
}

// New constructs a yt-dlp client.
func New(binary, releaseURL string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary path required")
	}
	client := &Client{
		binary:     binary,
		releaseURL: releaseURL,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured binary path for logging.
func (c *Client) Binary() string {
	return c.binary
}

// Fetch downloads url into destDir under baseName and returns the path of the
// resulting file. The downloader picks the container format, so the final
// extension is discovered afterwards: among the files named `{baseName}.*`
// the one with the newest modification time wins, ties broken by
// lexicographically smaller name.
func (c *Client) Fetch(ctx context.Context, url, destDir, baseName string) (string, error) {
	if err := c.checkBinary(); err != nil {
		return "", err
	}

	// Stale leftovers from an aborted run must not be mistaken for fresh
	// output. Deletion failures are swallowed so a permission hiccup does
	// not block the download itself.
	fileutil.RemoveWithPrefix(destDir, baseName+".")

	template := filepath.Join(destDir, baseName+".%(ext)s")
	if err := c.exec.Run(ctx, c.binary, []string{"-o", template, url}); err != nil {
		return "", services.Wrap(services.ErrToolFailed, "download", "yt-dlp", exitDetail(err), err)
	}

	downloaded := newestWithPrefix(destDir, baseName+".")
	if downloaded == "" {
		return "", services.Wrap(services.ErrNotFound, "download", "locate output",
			fmt.Sprintf("no %s.* file in %s", baseName, destDir), nil)
	}
	return downloaded, nil
}

func (c *Client) checkBinary() error {
	info, err := os.Stat(c.binary)
	if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return services.Wrap(services.ErrToolMissing, "download", "yt-dlp",
			fmt.Sprintf("not found at %s, run --update-ytdlp to install", c.binary), nil)
	}
	return nil
}

func newestWithPrefix(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// A listing failure means no candidates, same as an empty directory.
		return ""
	}

	type candidate struct {
		name string
		mod  int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), mod: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mod != candidates[j].mod {
			return candidates[i].mod > candidates[j].mod
		}
		return candidates[i].name < candidates[j].name
	})
	return filepath.Join(dir, candidates[0].name)
}

func exitDetail(err error) string {
	if code := services.ExitStatus(err); code >= 0 {
		return fmt.Sprintf("exit status %d", code)
	}
	return "invocation failed"
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Downloader = (*Client)(nil)

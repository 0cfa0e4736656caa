// Package whisper wraps the whisper speech-to-text CLI. The tool deposits
// `{video base}.srt` in the output directory; verifying that the file
// actually appeared is the caller's job.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"subpipe/internal/services"
)

// DefaultBinary is the transcription executable resolved via PATH.
const DefaultBinary = "whisper"

// Transcriber defines the behaviour the transcription stage needs.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath, outputDir string) error
}

// Config holds transcription parameters.
type Config struct {
	Binary   string
	Model    string
	Language string
}

// Service invokes the whisper CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs whisper against the video, asking for an SRT file in
// outputDir. A non-zero exit is tagged ErrToolFailed; any other spawn
// failure surfaces untagged so the caller can tell the two apart.
func (s *Service) Transcribe(ctx context.Context, videoPath, outputDir string) error {
	if strings.TrimSpace(videoPath) == "" {
		return fmt.Errorf("transcribe: video path required")
	}
	args := []string{
		videoPath,
		"--model", s.cfg.Model,
		"--language", s.cfg.Language,
		"--output_dir", outputDir,
		"--output_format", "srt",
	}
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return services.Wrap(services.ErrToolFailed, "transcribe", "whisper",
				fmt.Sprintf("exit status %d", exitErr.ExitCode()), err)
		}
		return fmt.Errorf("transcribe: run whisper: %w", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Transcriber = (*Service)(nil)

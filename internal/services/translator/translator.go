// Package translator wraps the node-based chatgpt-subtitle-translator CLI.
// The endpoint credential travels through the subprocess environment, never
// through argv, so it cannot leak via process listings.
package translator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subpipe/internal/services"
)

// Translator defines the behaviour the translation stage needs.
type Translator interface {
	Translate(ctx context.Context, inputPath, outputPath string) error
}

// Config holds translation parameters.
type Config struct {
	// Path is the translator checkout; the entry point lives at
	// cli/translator.mjs below it.
	Path       string
	NodeBinary string
	Model      string
	SourceLang string
	TargetLang string
	BatchSizes string
	Endpoint   string
	APIKey     string
}

// Service invokes the translator CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args []string, env []string) error
}

// NewService creates a translator service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.NodeBinary == "" {
		cfg.NodeBinary = "node"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args []string, env []string) error) {
	s.commandRunner = runner
}

// Script returns the translator entry point path.
func (s *Service) Script() string {
	return filepath.Join(s.cfg.Path, "cli", "translator.mjs")
}

// Translate runs one translation attempt from inputPath to outputPath.
// No retries: resumability is the translator's own business via its
// progress checkpoint files.
func (s *Service) Translate(ctx context.Context, inputPath, outputPath string) error {
	if strings.TrimSpace(inputPath) == "" {
		return fmt.Errorf("translate: input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("translate: output path required")
	}

	args := []string{
		s.Script(),
		"--from", s.cfg.SourceLang,
		"--to", s.cfg.TargetLang,
		"--model", s.cfg.Model,
		"--input", inputPath,
		"--output", outputPath,
		"--no-use-moderator",
		"--batch-sizes", s.cfg.BatchSizes,
	}
	env := append(os.Environ(),
		"OPENAI_API_KEY="+s.cfg.APIKey,
		"OPENAI_BASE_URL="+s.cfg.Endpoint,
	)

	if err := s.run(ctx, s.cfg.NodeBinary, args, env); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return services.Wrap(services.ErrToolFailed, "translate", "translator",
				fmt.Sprintf("exit status %d", exitErr.ExitCode()), err)
		}
		return services.Wrap(services.ErrToolFailed, "translate", "translator", "invocation failed", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, name string, args []string, env []string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args, env)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = env
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Translator = (*Service)(nil)

// Package services holds the error taxonomy shared by the external tool
// clients and the pipeline controller.
package services

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrToolMissing marks a prerequisite binary that is absent or not executable.
	ErrToolMissing = errors.New("tool missing")
	// ErrNotFound marks an expected file that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrToolFailed marks a subprocess that exited non-zero.
	ErrToolFailed = errors.New("tool failed")
	// ErrOutputMissing marks a subprocess that succeeded without producing its artifact.
	ErrOutputMissing = errors.New("output missing")
	// ErrConfiguration marks unusable invocation or settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later exit-code classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrToolFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitStatus extracts the exit code of a wrapped subprocess failure.
// Returns -1 when the chain carries no exit status.
func ExitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

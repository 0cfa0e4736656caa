package services_test

import (
	"errors"
	"strings"
	"testing"

	"subpipe/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "acquire", "local file", "movie.mp4", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "acquire: local file: movie.mp4") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrToolFailed, "translate", "run", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
	if !errors.Is(err, services.ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}

func TestWrapNilMarkerDefaults(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrToolFailed) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestExitStatusWithoutExitError(t *testing.T) {
	if got := services.ExitStatus(errors.New("plain")); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

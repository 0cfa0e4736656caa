package ytdlp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subpipe/internal/services"
	"subpipe/internal/services/ytdlp"
)

type fakeExecutor struct {
	calls [][]string
	run   func(binary string, args []string) error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) error {
	f.calls = append(f.calls, append([]string{binary}, args...))
	if f.run != nil {
		return f.run(binary, args)
	}
	return nil
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
}

func touchAt(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestFetchMissingBinary(t *testing.T) {
	dir := t.TempDir()
	client, err := ytdlp.New(filepath.Join(dir, "yt-dlp"), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Fetch(context.Background(), "https://example.com/v", dir, "vid")
	if !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "--update-ytdlp") {
		t.Fatalf("expected install hint in %v", err)
	}
}

func TestFetchNonExecutableBinary(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(binary, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	client, _ := ytdlp.New(binary, "")
	_, err := client.Fetch(context.Background(), "https://example.com/v", dir, "vid")
	if !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestFetchPurgesStaleFilesAndSelectsNewest(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "yt-dlp")
	writeExecutable(t, binary)

	destDir := t.TempDir()
	stale := filepath.Join(destDir, "vid.part")
	touchAt(t, stale, time.Now().Add(-time.Hour))

	now := time.Now()
	exec := &fakeExecutor{run: func(_ string, _ []string) error {
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Fatal("stale file should have been purged before the download")
		}
		touchAt(t, filepath.Join(destDir, "vid.mp4"), now.Add(-time.Minute))
		touchAt(t, filepath.Join(destDir, "vid.webm"), now)
		return nil
	}}
	client, _ := ytdlp.New(binary, "", ytdlp.WithExecutor(exec))

	got, err := client.Fetch(context.Background(), "https://example.com/v", destDir, "vid")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != filepath.Join(destDir, "vid.webm") {
		t.Fatalf("expected newest file, got %q", got)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(exec.calls))
	}
	call := exec.calls[0]
	wantTemplate := filepath.Join(destDir, "vid.%(ext)s")
	if call[0] != binary || call[1] != "-o" || call[2] != wantTemplate || call[3] != "https://example.com/v" {
		t.Fatalf("unexpected invocation: %v", call)
	}
}

func TestFetchTieBreaksLexicographically(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "yt-dlp")
	writeExecutable(t, binary)

	destDir := t.TempDir()
	same := time.Now().Truncate(time.Second)
	exec := &fakeExecutor{run: func(_ string, _ []string) error {
		touchAt(t, filepath.Join(destDir, "vid.webm"), same)
		touchAt(t, filepath.Join(destDir, "vid.mp4"), same)
		return nil
	}}
	client, _ := ytdlp.New(binary, "", ytdlp.WithExecutor(exec))

	got, err := client.Fetch(context.Background(), "u", destDir, "vid")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != filepath.Join(destDir, "vid.mp4") {
		t.Fatalf("expected lexicographic tie-break, got %q", got)
	}
}

func TestFetchToolFailure(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "yt-dlp")
	writeExecutable(t, binary)

	exec := &fakeExecutor{run: func(_ string, _ []string) error {
		return errors.New("network unreachable")
	}}
	client, _ := ytdlp.New(binary, "", ytdlp.WithExecutor(exec))

	_, err := client.Fetch(context.Background(), "u", t.TempDir(), "vid")
	if !errors.Is(err, services.ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}

func TestFetchNoOutput(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "yt-dlp")
	writeExecutable(t, binary)

	client, _ := ytdlp.New(binary, "", ytdlp.WithExecutor(&fakeExecutor{}))
	_, err := client.Fetch(context.Background(), "u", t.TempDir(), "vid")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateInstallsBinary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("#!/bin/sh\necho yt-dlp\n"))
	}))
	defer server.Close()

	binary := filepath.Join(t.TempDir(), "bin", "yt-dlp")
	exec := &fakeExecutor{}
	client, _ := ytdlp.New(binary, server.URL, ytdlp.WithExecutor(exec))

	if err := client.Update(context.Background(), server.Client()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	info, err := os.Stat(binary)
	if err != nil {
		t.Fatalf("stat binary: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatal("binary should be executable")
	}
	if len(exec.calls) != 1 || exec.calls[0][1] != "--version" {
		t.Fatalf("expected version check, got %v", exec.calls)
	}
}

func TestUpdateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	binary := filepath.Join(t.TempDir(), "yt-dlp")
	client, _ := ytdlp.New(binary, server.URL, ytdlp.WithExecutor(&fakeExecutor{}))
	if err := client.Update(context.Background(), server.Client()); err == nil {
		t.Fatal("expected error for bad status")
	}
	if _, err := os.Stat(binary); !os.IsNotExist(err) {
		t.Fatal("failed update must not leave a binary behind")
	}
}

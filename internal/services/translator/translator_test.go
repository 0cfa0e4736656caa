package translator_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"subpipe/internal/services"
	"subpipe/internal/services/translator"
)

func newService() *translator.Service {
	return translator.NewService(translator.Config{
		Path:       "/opt/chatgpt-subtitle-translator",
		Model:      "qwen3-30b-a3b-instruct-2507",
		SourceLang: "en",
		TargetLang: "pl",
		BatchSizes: "[5,10]",
		Endpoint:   "http://localhost:20000/v1",
		APIKey:     "lm-studio",
	})
}

func TestTranslateBuildsArgs(t *testing.T) {
	svc := newService()

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args []string, _ []string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := svc.Translate(context.Background(), "/v/movie.srt", "/v/movie_pl.srt"); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if gotName != "node" {
		t.Fatalf("unexpected binary: %q", gotName)
	}
	want := []string{
		filepath.Join("/opt/chatgpt-subtitle-translator", "cli", "translator.mjs"),
		"--from", "en",
		"--to", "pl",
		"--model", "qwen3-30b-a3b-instruct-2507",
		"--input", "/v/movie.srt",
		"--output", "/v/movie_pl.srt",
		"--no-use-moderator",
		"--batch-sizes", "[5,10]",
	}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", gotArgs, want)
	}
}

func TestTranslateInjectsCredentialsViaEnvironmentOnly(t *testing.T) {
	svc := newService()

	var gotArgs []string
	var gotEnv []string
	svc.WithCommandRunner(func(_ context.Context, _ string, args []string, env []string) error {
		gotArgs = args
		gotEnv = env
		return nil
	})

	if err := svc.Translate(context.Background(), "/v/in.srt", "/v/out.srt"); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	var foundKey, foundURL bool
	for _, kv := range gotEnv {
		if kv == "OPENAI_API_KEY=lm-studio" {
			foundKey = true
		}
		if kv == "OPENAI_BASE_URL=http://localhost:20000/v1" {
			foundURL = true
		}
	}
	if !foundKey || !foundURL {
		t.Fatalf("credentials missing from environment: key=%v url=%v", foundKey, foundURL)
	}
	for _, arg := range gotArgs {
		if strings.Contains(arg, "lm-studio") {
			t.Fatalf("credential leaked into argv: %v", gotArgs)
		}
	}
}

func TestTranslateFailureIsToolFailed(t *testing.T) {
	svc := newService()
	svc.WithCommandRunner(func(_ context.Context, _ string, _ []string, _ []string) error {
		return errors.New("connection refused")
	})
	err := svc.Translate(context.Background(), "/v/in.srt", "/v/out.srt")
	if !errors.Is(err, services.ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}

func TestTranslateRequiresPaths(t *testing.T) {
	svc := newService()
	svc.WithCommandRunner(func(_ context.Context, _ string, _ []string, _ []string) error {
		t.Fatal("runner should not be called")
		return nil
	})
	if err := svc.Translate(context.Background(), "", "/v/out.srt"); err == nil {
		t.Fatal("expected error for empty input")
	}
	if err := svc.Translate(context.Background(), "/v/in.srt", ""); err == nil {
		t.Fatal("expected error for empty output")
	}
}

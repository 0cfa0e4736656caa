package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Whisper contains settings for the transcription tool.
type Whisper struct {
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Translator contains settings for the subtitle translation tool.
type Translator struct {
	Endpoint   string `toml:"endpoint"`
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	Path       string `toml:"path"`
	SourceLang string `toml:"source_lang"`
	TargetLang string `toml:"target_lang"`
	BatchSizes string `toml:"batch_sizes"`
}

// Downloader contains settings for the yt-dlp video downloader.
type Downloader struct {
	BinaryPath           string `toml:"binary_path"`
	OutputName           string `toml:"output_name"`
	DownloadDir          string `toml:"download_dir"`
	ReleaseURL           string `toml:"release_url"`
	UpdateTimeoutSeconds int    `toml:"update_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Paths contains filesystem locations owned by subpipe itself.
type Paths struct {
	HistoryDB string `toml:"history_db"`
}

// Config encapsulates all configuration values for subpipe.
//
// Configuration sections by subsystem:
//   - Whisper: transcription model and language hint
//   - Translator: translation endpoint, credential, model, and language pair
//   - Downloader: yt-dlp location, output naming, and update source
//   - Logging: log format and level
//   - Paths: run history database location
type Config struct {
	Whisper    Whisper    `toml:"whisper"`
	Translator Translator `toml:"translator"`
	Downloader Downloader `toml:"downloader"`
	Logging    Logging    `toml:"logging"`
	Paths      Paths      `toml:"paths"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subpipe/config.toml")
}

// Load locates and parses a configuration file, then applies environment
// overrides. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// normalize expands the path-valued settings the original tool expanded:
// the translator checkout, the download directory, and the history database.
// The downloader binary path is used as configured. The language pair is
// deliberately untouched: the configured values flow verbatim into tool argv
// and artifact names, so TARGET_LANG=PL produces `{base}_PL.srt`.
func (c *Config) normalize() error {
	expanded, err := expandPath(c.Translator.Path)
	if err != nil {
		return err
	}
	c.Translator.Path = expanded

	expanded, err = expandPath(c.Downloader.DownloadDir)
	if err != nil {
		return err
	}
	c.Downloader.DownloadDir = expanded

	expanded, err = expandPath(c.Paths.HistoryDB)
	if err != nil {
		return err
	}
	c.Paths.HistoryDB = expanded
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	pathValue = os.ExpandEnv(pathValue)
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

const (
	defaultWhisperModel         = "large"
	defaultWhisperLanguage      = "en"
	defaultTranslatorEndpoint   = "http://localhost:20000/v1"
	defaultTranslatorAPIKey     = "lm-studio"
	defaultTranslatorModel      = "qwen3-30b-a3b-instruct-2507"
	defaultTranslatorPath       = "$HOME/tools/translateMovie/chatgpt-subtitle-translator"
	defaultSourceLang           = "en"
	defaultTargetLang           = "pl"
	defaultBatchSizes           = "[5,10]"
	defaultYtdlpPath            = "/usr/local/bin/yt-dlp"
	defaultYtdlpOutputName      = "ytDownloadedFile"
	defaultDownloadDir          = "$HOME/Downloads"
	defaultYtdlpReleaseURL      = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/yt-dlp"
	defaultUpdateTimeoutSeconds = 300
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultHistoryDBPath        = "~/.local/share/subpipe/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Whisper: Whisper{
			Model:    defaultWhisperModel,
			Language: defaultWhisperLanguage,
		},
		Translator: Translator{
			Endpoint:   defaultTranslatorEndpoint,
			APIKey:     defaultTranslatorAPIKey,
			Model:      defaultTranslatorModel,
			Path:       defaultTranslatorPath,
			SourceLang: defaultSourceLang,
			TargetLang: defaultTargetLang,
			BatchSizes: defaultBatchSizes,
		},
		Downloader: Downloader{
			BinaryPath:           defaultYtdlpPath,
			OutputName:           defaultYtdlpOutputName,
			DownloadDir:          defaultDownloadDir,
			ReleaseURL:           defaultYtdlpReleaseURL,
			UpdateTimeoutSeconds: defaultUpdateTimeoutSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Paths: Paths{
			HistoryDB: defaultHistoryDBPath,
		},
	}
}

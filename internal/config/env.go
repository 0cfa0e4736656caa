package config

import "os"

// applyEnv overlays the environment variables the pipeline has always read.
// Values are taken verbatim; each key is independent and a malformed value
// fails at the point of use, not here.
func (c *Config) applyEnv() {
	overrides := []struct {
		name string
		dest *string
	}{
		{"WHISPER_MODEL", &c.Whisper.Model},
		{"WHISPER_LANGUAGE", &c.Whisper.Language},
		{"OPENAI_ENDPOINT", &c.Translator.Endpoint},
		{"OPENAI_API_KEY", &c.Translator.APIKey},
		{"OPENAI_MODEL", &c.Translator.Model},
		{"TRANSLATOR_PATH", &c.Translator.Path},
		{"SOURCE_LANG", &c.Translator.SourceLang},
		{"TARGET_LANG", &c.Translator.TargetLang},
		{"TRANSLATION_BATCH_SIZES", &c.Translator.BatchSizes},
		{"YT_DLP_PATH", &c.Downloader.BinaryPath},
		{"YT_DLP_OUTPUT_NAME", &c.Downloader.OutputName},
		{"SUBPIPE_DOWNLOAD_DIR", &c.Downloader.DownloadDir},
		{"SUBPIPE_LOG_LEVEL", &c.Logging.Level},
		{"SUBPIPE_LOG_FORMAT", &c.Logging.Format},
		{"SUBPIPE_HISTORY_DB", &c.Paths.HistoryDB},
	}
	for _, override := range overrides {
		if value, ok := os.LookupEnv(override.name); ok {
			*override.dest = value
		}
	}
}

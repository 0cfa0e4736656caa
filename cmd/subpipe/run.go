package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"subpipe/internal/config"
	"subpipe/internal/fileutil"
	"subpipe/internal/history"
	"subpipe/internal/logging"
	"subpipe/internal/pipeline"
	"subpipe/internal/services"
	"subpipe/internal/services/translator"
	"subpipe/internal/services/whisper"
	"subpipe/internal/services/ytdlp"
)

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	if err := validateModes(opts); err != nil {
		return err
	}

	cfg, logger, err := loadEnvironment(opts)
	if err != nil {
		return pipeline.Coded(pipeline.ExitUsage, err)
	}

	ctx := cmd.Context()

	// Updating is a standalone action: refresh the binary, then exit.
	if opts.updateYtdlp {
		if err := updateDownloader(ctx, cfg, logger); err != nil {
			return pipeline.Coded(pipeline.ExitUsage, err)
		}
		return nil
	}

	if opts.postprocessOnly {
		return runPostprocessOnly(cmd, opts, cfg, logger)
	}

	return runPipeline(ctx, cmd, opts, cfg, logger)
}

// validateModes enforces the acquisition flag contract before any setup
// happens: exactly one video source, except that --update-ytdlp may stand
// alone.
func validateModes(opts *rootOptions) error {
	usage := func(message string) error {
		return pipeline.Coded(pipeline.ExitUsage,
			services.Wrap(services.ErrConfiguration, "cli", "flags", message, nil))
	}

	switch {
	case opts.filePath != "" && opts.netURL != "":
		return usage("--file and --net are mutually exclusive")
	case opts.postprocessOnly && opts.netURL != "":
		return usage("--postprocess-only works on a local file, not --net")
	case opts.postprocessOnly && opts.filePath == "":
		return usage("--postprocess-only requires --file")
	case opts.filePath == "" && opts.netURL == "" && !opts.updateYtdlp:
		return usage("one of --file or --net is required")
	}
	return nil
}

func loadEnvironment(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	format := cfg.Logging.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func updateDownloader(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := ytdlp.New(cfg.Downloader.BinaryPath, cfg.Downloader.ReleaseURL)
	if err != nil {
		return err
	}
	logger.Info("updating yt-dlp",
		logging.String("url", cfg.Downloader.ReleaseURL),
		logging.String("binary", client.Binary()),
	)
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Downloader.UpdateTimeoutSeconds) * time.Second,
	}
	return client.Update(ctx, httpClient)
}

func runPostprocessOnly(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, logger *slog.Logger) error {
	video, err := config.ExpandPath(opts.filePath)
	if err != nil {
		return pipeline.Coded(pipeline.ExitUsage, err)
	}
	if !fileutil.IsRegularFile(video) {
		return pipeline.Coded(pipeline.ExitFileMissing,
			services.Wrap(services.ErrNotFound, "postprocess", "local file", video, nil))
	}

	result := pipeline.Postprocess(
		filepath.Dir(video),
		pipeline.VideoBaseName(video),
		cfg.Translator.TargetLang,
		logger,
	)
	printArtifacts(cmd, result.Original, result.Translated)
	return nil
}

func runPipeline(ctx context.Context, cmd *cobra.Command, opts *rootOptions, cfg *config.Config, logger *slog.Logger) error {
	downloader, err := ytdlp.New(cfg.Downloader.BinaryPath, cfg.Downloader.ReleaseURL)
	if err != nil {
		return pipeline.Coded(pipeline.ExitUsage, err)
	}
	transcriber := whisper.NewService(whisper.Config{
		Model:    cfg.Whisper.Model,
		Language: cfg.Whisper.Language,
	})
	translate := translator.NewService(translator.Config{
		Path:       cfg.Translator.Path,
		Model:      cfg.Translator.Model,
		SourceLang: cfg.Translator.SourceLang,
		TargetLang: cfg.Translator.TargetLang,
		BatchSizes: cfg.Translator.BatchSizes,
		Endpoint:   cfg.Translator.Endpoint,
		APIKey:     cfg.Translator.APIKey,
	})

	store := openHistory(cfg, logger)
	defer store.Close()

	req := pipeline.Request{SkipTranscription: opts.skipWhisper}
	if opts.filePath != "" {
		source, err := config.ExpandPath(opts.filePath)
		if err != nil {
			return pipeline.Coded(pipeline.ExitUsage, err)
		}
		req.Mode = pipeline.ModeFile
		req.Source = source
	} else {
		req.Mode = pipeline.ModeNet
		req.Source = opts.netURL
	}

	p := pipeline.New(cfg, logger, downloader, transcriber, translate, store)
	result, err := p.Run(ctx, req)
	if err != nil {
		return err
	}
	printArtifacts(cmd, result.SubtitleOriginal, result.SubtitleTranslated)
	return nil
}

// openHistory never fails the run; a broken history database only costs the
// record.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if cfg.Paths.HistoryDB == "" {
		return nil
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("open history database failed",
			logging.String("path", cfg.Paths.HistoryDB),
			logging.Error(err),
		)
		return nil
	}
	return store
}

func printArtifacts(cmd *cobra.Command, original, translated string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Original subtitles:   %s\n", original)
	fmt.Fprintf(out, "Translated subtitles: %s\n", translated)
}

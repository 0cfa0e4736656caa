package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"subpipe/internal/config"
	"subpipe/internal/fileutil"
	"subpipe/internal/history"
	"subpipe/internal/language"
	"subpipe/internal/logging"
	"subpipe/internal/services"
	"subpipe/internal/services/translator"
	"subpipe/internal/services/whisper"
	"subpipe/internal/services/ytdlp"
)

// Mode selects how the video is acquired.
type Mode string

const (
	// ModeFile uses a local video path.
	ModeFile Mode = "file"
	// ModeNet downloads the video from a URL.
	ModeNet Mode = "net"
)

// Request describes one pipeline run.
type Request struct {
	Mode Mode
	// Source is a local path for ModeFile, a URL for ModeNet.
	Source string
	// SkipTranscription requires a pre-existing source-language subtitle.
	SkipTranscription bool
}

// Result reports the artifacts of a successful run.
type Result struct {
	VideoFile          string
	SubtitleOriginal   string
	SubtitleTranslated string
}

// Pipeline sequences the stages against the three external tools. The tool
// interfaces are narrow so tests can substitute fakes without spawning
// processes.
type Pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	downloader  ytdlp.Downloader
	transcriber whisper.Transcriber
	translator  translator.Translator
	store       *history.Store
}

// New constructs a pipeline. store may be nil to disable run history.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	downloader ytdlp.Downloader,
	transcriber whisper.Transcriber,
	trans translator.Translator,
	store *history.Store,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		downloader:  downloader,
		transcriber: transcriber,
		translator:  trans,
		store:       store,
	}
}

// Run executes one full pipeline pass: acquire, transcribe, translate,
// post-process. Strictly sequential; each external invocation blocks until
// its process exits.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	run := p.beginHistory(ctx, req)

	result, err := p.run(ctx, req)

	p.finishHistory(ctx, run, result, err)
	return result, err
}

func (p *Pipeline) run(ctx context.Context, req Request) (Result, error) {
	var result Result

	videoFile, err := p.acquire(ctx, req)
	if err != nil {
		return result, err
	}
	result.VideoFile = videoFile

	videoDir := filepath.Dir(videoFile)
	baseName := VideoBaseName(videoFile)
	targetLang := p.cfg.Translator.TargetLang

	log := logging.NewComponentLogger(p.logger, "pipeline")
	log.Debug("video identified",
		logging.String("dir", videoDir),
		logging.String("base", baseName),
		logging.String("target_language", language.DisplayName(targetLang)),
	)

	unlock, err := p.lockVideoDir(videoDir, baseName)
	if err != nil {
		return result, err
	}
	defer unlock()

	canonical := CanonicalSubtitle(videoDir, baseName)
	if err := p.transcribe(ctx, req, videoFile, videoDir, canonical); err != nil {
		return result, err
	}

	staged := StagedSubtitle(videoDir, baseName, targetLang)
	if err := p.translate(ctx, canonical, staged); err != nil {
		return result, err
	}

	post := Postprocess(videoDir, baseName, targetLang, p.logger)
	result.SubtitleOriginal = post.Original
	result.SubtitleTranslated = post.Translated

	log.Info("pipeline complete",
		logging.String("video", videoFile),
		logging.String("subtitle_original", post.Original),
		logging.String("subtitle_translated", post.Translated),
	)
	return result, nil
}

func (p *Pipeline) acquire(ctx context.Context, req Request) (string, error) {
	log := logging.NewComponentLogger(p.logger, "acquire")

	switch req.Mode {
	case ModeFile:
		if !fileutil.IsRegularFile(req.Source) {
			return "", Coded(ExitFileMissing,
				services.Wrap(services.ErrNotFound, "acquire", "local file", req.Source, nil))
		}
		log.Debug("using local video", logging.String("path", req.Source))
		return req.Source, nil

	case ModeNet:
		destDir := p.cfg.Downloader.DownloadDir
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return "", Coded(ExitDownloadFailed, fmt.Errorf("create download directory: %w", err))
		}
		log.Info("downloading video", logging.String("url", req.Source), logging.String("dir", destDir))
		videoFile, err := p.downloader.Fetch(ctx, req.Source, destDir, p.cfg.Downloader.OutputName)
		if err != nil {
			return "", Coded(ExitDownloadFailed, err)
		}
		log.Info("download complete", logging.String("path", videoFile))
		return videoFile, nil

	default:
		return "", Coded(ExitUsage,
			services.Wrap(services.ErrConfiguration, "acquire", "mode", "one of --file or --net is required", nil))
	}
}

func (p *Pipeline) transcribe(ctx context.Context, req Request, videoFile, videoDir, canonical string) error {
	log := logging.NewComponentLogger(p.logger, "transcribe")

	if req.SkipTranscription {
		log.Info("skipping transcription, using existing subtitles")
		if !fileutil.IsRegularFile(canonical) {
			return Coded(ExitSubtitleMissing,
				services.Wrap(services.ErrNotFound, "transcribe", "existing subtitle", canonical, nil))
		}
		return nil
	}

	log.Info("generating subtitles",
		logging.String("video", videoFile),
		logging.String("language", language.DisplayName(p.cfg.Whisper.Language)),
	)
	if err := p.transcriber.Transcribe(ctx, videoFile, videoDir); err != nil {
		if errors.Is(err, services.ErrToolFailed) {
			return Coded(ExitTranscriptionFailed, err)
		}
		return Coded(ExitTranscriptionError, err)
	}

	// The tool does not report where it wrote; trust only the filesystem.
	if !fileutil.IsRegularFile(canonical) {
		return Coded(ExitTranscriptMissing,
			services.Wrap(services.ErrOutputMissing, "transcribe", "whisper", canonical, nil))
	}
	return nil
}

func (p *Pipeline) translate(ctx context.Context, canonical, staged string) error {
	log := logging.NewComponentLogger(p.logger, "translate")

	log.Info("translating subtitles",
		logging.String("input", canonical),
		logging.String("output", staged),
		logging.String("target_language", language.DisplayName(p.cfg.Translator.TargetLang)),
	)
	if err := p.translator.Translate(ctx, canonical, staged); err != nil {
		return Coded(ExitTranslationFailed, err)
	}
	if !fileutil.IsRegularFile(staged) {
		return Coded(ExitTranslationOutputMissing,
			services.Wrap(services.ErrOutputMissing, "translate", "translator", staged, nil))
	}
	return nil
}

// lockVideoDir takes a per-video advisory lock so two concurrent runs cannot
// interleave renames over the same artifact set.
func (p *Pipeline) lockVideoDir(videoDir, baseName string) (func(), error) {
	lockPath := filepath.Join(videoDir, "."+baseName+".subpipe.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock video directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is processing %s", videoDir)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

func (p *Pipeline) beginHistory(ctx context.Context, req Request) *history.Run {
	if p.store == nil {
		return nil
	}
	run, err := p.store.Begin(ctx, string(req.Mode), req.Source)
	if err != nil {
		p.logger.Warn("record run start failed", logging.Error(err))
		return nil
	}
	return run
}

func (p *Pipeline) finishHistory(ctx context.Context, run *history.Run, result Result, runErr error) {
	if p.store == nil || run == nil {
		return
	}
	run.VideoFile = result.VideoFile
	run.SubtitleOriginal = result.SubtitleOriginal
	run.SubtitleTranslated = result.SubtitleTranslated
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = history.StatusCompleted
	}
	if err := p.store.Finish(ctx, run); err != nil {
		p.logger.Warn("record run finish failed", logging.Error(err))
	}
}

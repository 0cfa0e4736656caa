package pipeline

import (
	"log/slog"

	"subpipe/internal/fileutil"
	"subpipe/internal/logging"
)

// PostprocessResult reports the final subtitle paths. The paths are
// informational: they are returned even when an underlying rename failed,
// matching the non-fatal cleanup policy.
type PostprocessResult struct {
	// Original is `{base}_en.srt`, the archived source-language transcript.
	Original string
	// Translated is `{base}.srt`, the canonical name now holding the
	// target-language text.
	Translated string
}

// Postprocess reconciles the subtitle artifacts after translation:
//
//  1. `{base}.srt` (source transcript) is renamed to `{base}_en.srt`,
//     overwriting any previous archive. The archive only happens when a
//     staged translation is waiting to take the canonical name; otherwise
//     a second invocation would move the reconciled canonical file away
//     and leave nothing in its place.
//  2. `{base}_{lang}.srt` (staged translation) is promoted to the
//     canonical `{base}.srt`.
//  3. Every `*.progress_{lang}.csv` checkpoint in the directory is purged.
//
// Each step is independent and log-only on failure; a run that produced a
// translation is a success even if renaming partially fails. Invoking
// Postprocess again when the files are already in their final positions
// is a no-op that returns the same path pair.
func Postprocess(videoDir, baseName, targetLang string, logger *slog.Logger) PostprocessResult {
	log := logging.NewComponentLogger(logger, "postprocess")

	canonical := CanonicalSubtitle(videoDir, baseName)
	staged := StagedSubtitle(videoDir, baseName, targetLang)
	archived := ArchivedSubtitle(videoDir, baseName)

	if fileutil.IsRegularFile(staged) && fileutil.IsRegularFile(canonical) {
		if err := fileutil.ReplaceFile(canonical, archived); err != nil {
			log.Warn("archive original transcript failed",
				logging.String("from", canonical),
				logging.String("to", archived),
				logging.Error(err),
			)
		} else {
			log.Debug("archived original transcript", logging.String("path", archived))
		}
	}

	if fileutil.IsRegularFile(staged) {
		if err := fileutil.ReplaceFile(staged, canonical); err != nil {
			log.Warn("promote translation failed",
				logging.String("from", staged),
				logging.String("to", canonical),
				logging.Error(err),
			)
		} else {
			log.Debug("promoted translation", logging.String("path", canonical))
		}
	}

	for _, name := range fileutil.RemoveWithSuffix(videoDir, ProgressSuffix(targetLang)) {
		log.Warn("remove progress checkpoint failed", logging.String("name", name))
	}

	return PostprocessResult{Original: archived, Translated: canonical}
}

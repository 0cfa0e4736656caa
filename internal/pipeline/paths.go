package pipeline

import (
	"path/filepath"
	"strings"
)

// VideoBaseName strips the directory and extension from a video path.
func VideoBaseName(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CanonicalSubtitle is `{base}.srt`: the source transcript before
// reconciliation, the translated text after.
func CanonicalSubtitle(videoDir, baseName string) string {
	return filepath.Join(videoDir, baseName+".srt")
}

// StagedSubtitle is `{base}_{lang}.srt`, the translator's direct output.
func StagedSubtitle(videoDir, baseName, targetLang string) string {
	return filepath.Join(videoDir, baseName+"_"+targetLang+".srt")
}

// ArchivedSubtitle is `{base}_en.srt`, the final resting name for the
// original-language transcript.
func ArchivedSubtitle(videoDir, baseName string) string {
	return filepath.Join(videoDir, baseName+"_en.srt")
}

// ProgressSuffix matches the translator's resumability checkpoints,
// `*.progress_{lang}.csv`.
func ProgressSuffix(targetLang string) string {
	return ".progress_" + targetLang + ".csv"
}

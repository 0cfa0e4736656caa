// Package fileutil provides the small filesystem primitives the pipeline
// relies on: replace-style renames with a copy fallback and best-effort
// suffix/prefix cleanup.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReplaceFile moves src to dst, overwriting any existing file at dst.
// os.Rename gives atomic replace-or-create on the same filesystem; when the
// rename cannot be performed (cross-device moves, for example) it falls back
// to copy-then-delete, preserving the source mode and modification times.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := CopyFileMode(src, dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copy fallback: %w", err)
	}
	// Best effort: the copy is already in place.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveWithPrefix deletes every file in dir whose name starts with prefix.
// Deletions are independent and best-effort; the names that could not be
// removed are returned for logging. A listing failure yields no candidates.
func RemoveWithPrefix(dir, prefix string) []string {
	return removeMatching(dir, func(name string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

// RemoveWithSuffix deletes every file in dir whose name ends with suffix,
// with the same best-effort semantics as RemoveWithPrefix.
func RemoveWithSuffix(dir, suffix string) []string {
	return removeMatching(dir, func(name string) bool {
		return strings.HasSuffix(name, suffix)
	})
}

func removeMatching(dir string, match func(string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var failed []string
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			failed = append(failed, entry.Name())
		}
	}
	return failed
}

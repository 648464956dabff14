// Package startup provides utilities for application startup tasks.
package startup

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCleanupAge is the default maximum age for orphaned temp files.
const DefaultCleanupAge = 1 * time.Hour

// IsAtomicTempFile reports whether name looks like the temporary file
// storage.Sandbox.AtomicWrite writes before renaming (".<name>.<hex>.tmp").
func IsAtomicTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp") && strings.Count(name, ".") >= 3
}

// CleanupOrphanedTempFiles removes temp files left in baseDir by an
// interrupted atomic write, for example when a restart landed mid-export.
// Files newer than maxAge are kept. A missing baseDir is not an error.
//
// Returns the number of files removed and any error encountered.
func CleanupOrphanedTempFiles(logger *slog.Logger, baseDir string, maxAge time.Duration) (int, error) {
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		logger.Debug("base directory does not exist, skipping cleanup",
			"path", baseDir,
		)
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	var removed int

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsAtomicTempFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("failed to get temp file info",
				"path", path,
				"error", err,
			)
			return nil
		}

		if info.ModTime().After(cutoff) {
			logger.Debug("preserving recent temp file",
				"path", path,
				"age", time.Since(info.ModTime()).Round(time.Second),
			)
			return nil
		}

		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove orphaned temp file",
				"path", path,
				"error", err,
			)
			return nil
		}

		logger.Info("removed orphaned temp file",
			"path", path,
			"age", time.Since(info.ModTime()).Round(time.Second),
		)
		removed++
		return nil
	})
	if err != nil {
		logger.Error("failed to walk directory for cleanup",
			"path", baseDir,
			"error", err,
		)
		return removed, err
	}

	return removed, nil
}

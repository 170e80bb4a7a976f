// Package atomicfile provides crash-safe writes for individual files and
// whole directories: write to a sibling temp path in the same directory,
// then rename into place so a concurrent reader never observes a partial
// write.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Write writes data to target atomically. It creates a temp file in
// target's directory (so the final rename is same-filesystem), writes data,
// fsyncs, then renames over target. On any failure the temp file is removed
// and target is left untouched.
func Write(target string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomicfile: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("atomicfile: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("atomicfile: write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("atomicfile: sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("atomicfile: close temp: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("atomicfile: chmod temp: %w", err)
	}
	if err = os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("atomicfile: rename into place: %w", err)
	}
	return nil
}

// ReplaceDir atomically replaces targetDir's contents with the contents of
// buildDir (a directory the caller has already populated, typically a temp
// directory from os.MkdirTemp). On success buildDir no longer exists and
// targetDir holds what buildDir held. On failure targetDir is restored to
// its pre-call state and an error describing the failure is returned.
//
// Sequence: rename targetDir to a backup path, rename buildDir to
// targetDir, remove the backup. Any failure after the first rename
// restores the backup.
func ReplaceDir(targetDir, buildDir string) (err error) {
	parent := filepath.Dir(targetDir)
	backupDir := filepath.Join(parent, "."+filepath.Base(targetDir)+"."+uuid.NewString()+".bak")

	hadExisting := true
	if _, statErr := os.Stat(targetDir); os.IsNotExist(statErr) {
		hadExisting = false
	}

	if hadExisting {
		if err = os.Rename(targetDir, backupDir); err != nil {
			return fmt.Errorf("atomicfile: back up existing dir: %w", err)
		}
	}

	if err = os.Rename(buildDir, targetDir); err != nil {
		if hadExisting {
			if restoreErr := os.Rename(backupDir, targetDir); restoreErr != nil {
				return fmt.Errorf("atomicfile: promote build dir failed (%v) and restore failed (%v)", err, restoreErr)
			}
		}
		return fmt.Errorf("atomicfile: promote build dir: %w", err)
	}

	if hadExisting {
		if err = os.RemoveAll(backupDir); err != nil {
			// target is already correct; the stale backup is cosmetic.
			return nil
		}
	}
	return nil
}

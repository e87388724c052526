// Package fsutil holds the few filesystem helpers the test harness needs
// when preparing and cleaning test trees.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Touch creates name as an empty file, or updates its timestamps when it
// already exists.
func Touch(name string) error {
	if _, err := os.Stat(name); err == nil {
		now := time.Now()
		return os.Chtimes(name, now, now)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// FindExts walks directories recursively and returns every file whose name
// ends in one of exts. Directories listed in skip are not descended into,
// which also keeps the walk from following symlinked trees they cover.
func FindExts(directories, exts []string, skip ...string) ([]string, error) {
	skipped := make([]string, 0, len(skip))
	for _, s := range skip {
		skipped = append(skipped, filepath.Clean(s))
	}
	var matches []string
	for _, dir := range directories {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if slices.Contains(skipped, filepath.Clean(path)) {
					return fs.SkipDir
				}
				return nil
			}
			for _, ext := range exts {
				if strings.HasSuffix(d.Name(), ext) {
					matches = append(matches, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// RemoveAll deletes directory recursively. Unlike os.RemoveAll it retries
// after clearing read-only permission bits, which some tools (git, notably)
// leave on files they create.
func RemoveAll(directory string) error {
	err := os.RemoveAll(directory)
	if err == nil {
		return nil
	}
	walkErr := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		mode := fs.FileMode(0o600)
		if d.IsDir() {
			mode = 0o700
		}
		return os.Chmod(path, mode)
	})
	if walkErr != nil && !errors.Is(walkErr, fs.ErrNotExist) {
		return errors.Join(err, walkErr)
	}
	return os.RemoveAll(directory)
}

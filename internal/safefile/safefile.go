// Package safefile provides symlink-refusing, size-capped file access for
// the configuration, environment, and log files this tool touches. Files
// are opened with O_NOFOLLOW and path components are verified after the
// open, so a symlink swapped in concurrently cannot redirect the access.
package safefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// MaxFileSize is the maximum allowed size for ReadFile (16 MB). Inputs,
// config files, and .env files are all small text; anything near this
// limit is a mistake or an attack.
const MaxFileSize = 16 * 1024 * 1024

const dirPerm os.FileMode = 0o750

// ReadFile reads a file after validating that neither the file nor any
// parent directory is a symlink, that the file is regular, and that it
// does not exceed MaxFileSize.
func ReadFile(path string) ([]byte, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	// Open first with O_NOFOLLOW, then verify, to avoid a check-then-use
	// window on the final component.
	// #nosec G304 - absPath is cleaned above and opened with O_NOFOLLOW
	file, err := os.OpenFile(absPath, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if err != nil {
		if isNoFollowError(err) {
			return nil, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
		}
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if err := verifyPathComponents(absPath); err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, absPath)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, absPath)
	}

	content, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	if int64(len(content)) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, absPath)
	}
	return content, nil
}

// Create creates a new file for writing, refusing to follow symlinks and
// refusing to overwrite an existing file. Missing parent directories are
// created. The caller owns the returned file.
func Create(path string, perm os.FileMode) (*os.File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", absPath, err)
	}

	// #nosec G304 - absPath is cleaned above and opened with O_NOFOLLOW
	file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL|syscall.O_NOFOLLOW, perm)
	if err != nil {
		if isNoFollowError(err) {
			return nil, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
		}
		return nil, err
	}

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

// verifyPathComponents walks the parent directories of absPath and rejects
// any that is a symlink. Called after the file is already open, so the
// open itself cannot have been redirected through a link created later.
func verifyPathComponents(absPath string) error {
	current := filepath.Dir(absPath)
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return nil // reached the root
		}

		info, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to stat %s: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrIsSymlink, current)
		}

		current = parent
	}
}

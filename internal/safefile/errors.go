package safefile

import "errors"

// Error definitions
var (
	// ErrIsSymlink is returned when a path, or one of its parent
	// directories, is a symbolic link.
	ErrIsSymlink = errors.New("path is or traverses a symlink")

	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrNotRegularFile is returned when a path names something other
	// than a regular file (device, pipe, directory).
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrInvalidPath is returned when a path cannot be made absolute.
	ErrInvalidPath = errors.New("invalid file path")
)

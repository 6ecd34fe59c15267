// Package security validates user-supplied file paths before the CLI reads
// or writes them.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath is returned for an empty path.
	ErrEmptyPath = errors.New("file path cannot be empty")
	// ErrForbiddenChar is returned when a path carries a shell metacharacter.
	ErrForbiddenChar = errors.New("file path contains forbidden character")
)

// dangerousChars are shell metacharacters rejected in paths.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file exists.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("%w %q: %s", ErrForbiddenChar, char, path)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	return resolvedPath, nil
}

// SafeOpen validates path and opens it for reading.
func SafeOpen(path string) (*os.File, error) {
	validPath, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(validPath) // #nosec G304 -- path validated above
}

// SafeCreate validates path, creates its parent directory and truncates or
// creates the file with owner-only permissions.
func SafeCreate(path string) (*os.File, error) {
	validPath, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(validPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return os.OpenFile(validPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- path validated above
}

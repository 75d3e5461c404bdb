package search

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// PathType selects how the file-search normalizer renders result paths.
type PathType string

const (
	PathAbsolute PathType = "absolute"
	PathRelative PathType = "relative"
)

// validateDirectory fails with ErrInvalidDirectory for an empty/whitespace
// path, a non-existent path, a path that is not a directory, or one that
// is not readable. Returns the absolute, cleaned path on success.
func validateDirectory(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", newError(ErrInvalidDirectory, "directory path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", newError(ErrInvalidDirectory, "directory does not exist: "+path, err)
	}
	if !info.IsDir() {
		return "", newError(ErrInvalidDirectory, "path is not a directory: "+path, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", newError(ErrInvalidDirectory, "directory is not readable: "+path, err)
	}
	_ = f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError(ErrInvalidDirectory, "could not resolve absolute path: "+path, err)
	}
	return abs, nil
}

// validateGlob fails with ErrInvalidPattern for an empty/whitespace glob.
// Escaping is the builder's concern, not the validator's.
func validateGlob(pattern string) (string, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return "", newError(ErrInvalidPattern, "glob pattern cannot be empty", nil)
	}
	return trimmed, nil
}

// validateRegex fails with ErrInvalidPattern for an empty/whitespace
// pattern or one that does not compile under Go's RE2 dialect.
func validateRegex(pattern string) (string, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return "", newError(ErrInvalidPattern, "search pattern cannot be empty", nil)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return "", newError(ErrInvalidPattern, "invalid regex pattern: "+pattern, err)
	}
	return pattern, nil
}

// validateMaxResults rejects negative values with ErrInvalidArgument. A nil
// value means "no local cap".
func validateMaxResults(n *int) error {
	if n != nil && *n < 0 {
		return newError(ErrInvalidArgument, "max_results must be non-negative", nil)
	}
	return nil
}

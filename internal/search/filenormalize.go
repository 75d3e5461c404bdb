package search

import (
	"fmt"
	"path/filepath"
	"strings"
)

// normalizeFileOutput splits raw tool output into file paths, relativizes
// them when requested, truncates to maxResults, and renders the Markdown
// result block.
func normalizeFileOutput(raw string, directory string, pathType PathType, maxResults *int) (string, error) {
	var paths []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		paths = append(paths, trimmed)
	}

	if pathType == PathRelative {
		for i, p := range paths {
			rel, err := filepath.Rel(directory, p)
			if err != nil {
				continue
			}
			paths[i] = rel
		}
	}

	if maxResults != nil && len(paths) > *maxResults {
		paths = paths[:*maxResults]
	}

	return renderFileResult(paths), nil
}

func renderFileResult(paths []string) string {
	if len(paths) == 0 {
		return "**Found 0 files**"
	}

	var b strings.Builder
	if len(paths) == 1 {
		b.WriteString("**Found 1 file:**\n\n")
	} else {
		fmt.Fprintf(&b, "**Found %d files:**\n\n", len(paths))
	}
	for _, p := range paths {
		b.WriteString(p)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

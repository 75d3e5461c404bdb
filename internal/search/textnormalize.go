package search

import (
	"sort"
	"strconv"
	"strings"
)

// Match is a single text-search result record.
type Match struct {
	File    string
	Line    int
	Content string
}

// normalizeTextOutput parses raw FILE:LINE:CONTENT output into sorted
// Match records, silently skipping malformed lines, then renders the
// Markdown-ish result string. maxResults, when set, truncates during the
// parse pass before sorting completes (a known, preserved quirk: it can
// omit a later but lexicographically-smaller match).
func normalizeTextOutput(raw string, platform *PlatformProbe, maxResults *int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Found 0 matches."
	}

	var matches []Match
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}

		lineNumber, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}

		file := strings.TrimSpace(parts[0])
		if platform.IsWindows() {
			file = strings.ReplaceAll(file, "/", "\\")
		} else {
			file = strings.ReplaceAll(file, "\\", "/")
		}

		matches = append(matches, Match{File: file, Line: lineNumber, Content: parts[2]})

		if maxResults != nil && len(matches) >= *maxResults {
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].Line < matches[j].Line
	})

	return renderTextResult(matches)
}

func renderTextResult(matches []Match) string {
	if len(matches) == 0 {
		return "Found 0 matches."
	}

	var b strings.Builder
	b.WriteString("Found ")
	b.WriteString(strconv.Itoa(len(matches)))
	b.WriteString(" match(es).")

	currentFile := ""
	for _, m := range matches {
		if m.File != currentFile {
			b.WriteString("\n**")
			b.WriteString(m.File)
			b.WriteString(":**")
			currentFile = m.File
		}
		b.WriteString("\n- ")
		b.WriteString(strconv.Itoa(m.Line))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

package search

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/relayforge/relay/common/logger"
)

const (
	defaultSearchTimeout = 30
)

// FileSearch locates files by glob/name pattern, dispatching to the best
// available external utility on the host and normalizing its output.
type FileSearch struct {
	platform *PlatformProbe
	tools    *ToolRegistry
	runner   CommandRunner
}

// TextSearch locates lines matching a regular expression, dispatching to
// the best available external utility on the host, git-aware.
type TextSearch struct {
	platform *PlatformProbe
	tools    *ToolRegistry
	git      *GitRepoProbe
	runner   CommandRunner
}

var (
	fileSearchOnce sync.Once
	fileSearch     *FileSearch

	textSearchOnce sync.Once
	textSearch     *TextSearch
)

// newFileSearch builds a FileSearch bound to explicit collaborators,
// bypassing the process-wide singleton. Used by tests to inject a fake
// CommandRunner.
func newFileSearch(platform *PlatformProbe, runner CommandRunner) *FileSearch {
	return &FileSearch{
		platform: platform,
		tools:    NewToolRegistry(platform, runner),
		runner:   runner,
	}
}

// newTextSearch builds a TextSearch bound to explicit collaborators,
// bypassing the process-wide singleton. Used by tests to inject a fake
// CommandRunner.
func newTextSearch(platform *PlatformProbe, runner CommandRunner) *TextSearch {
	return &TextSearch{
		platform: platform,
		tools:    NewToolRegistry(platform, runner),
		git:      NewGitRepoProbe(platform, runner),
		runner:   runner,
	}
}

// FileSearchService returns the process-wide FileSearch singleton,
// constructing it lazily on first use.
func FileSearchService() *FileSearch {
	fileSearchOnce.Do(func() {
		platform := NewPlatformProbe()
		runner := NewExecCommandRunner(platform)
		fileSearch = &FileSearch{
			platform: platform,
			tools:    NewToolRegistry(platform, runner),
			runner:   runner,
		}
	})
	return fileSearch
}

// TextSearchService returns the process-wide TextSearch singleton,
// constructing it lazily on first use.
func TextSearchService() *TextSearch {
	textSearchOnce.Do(func() {
		platform := NewPlatformProbe()
		runner := NewExecCommandRunner(platform)
		textSearch = &TextSearch{
			platform: platform,
			tools:    NewToolRegistry(platform, runner),
			git:      NewGitRepoProbe(platform, runner),
			runner:   runner,
		}
	})
	return textSearch
}

// SearchFiles validates inputs, computes the candidate tool list for the
// host, and iterates it in order: skip unavailable tools, build the
// command, execute, classify the exit status, and on a usable result
// normalize and return. Exit code 0 or 1 both return (the latter as "no
// matches"); anything else falls back to the next candidate. Exhausting
// the candidate list raises AllSearchersFailed.
func (f *FileSearch) SearchFiles(ctx context.Context, pattern, directory string, maxResults *int, pathType PathType) (string, error) {
	if pathType == "" {
		pathType = PathAbsolute
	}

	dir, err := validateDirectory(directory)
	if err != nil {
		return "", err
	}
	glob, err := validateGlob(pattern)
	if err != nil {
		return "", err
	}
	if err := validateMaxResults(maxResults); err != nil {
		return "", err
	}

	sc := logger.StartSpan(ctx, "search.files")
	defer sc.End()
	ctx = sc.Context()

	candidates := f.tools.Priority(ContextFileSearch)

	var lastDiagnostic error
	for _, tool := range candidates {
		if !f.tools.IsAvailable(ctx, tool) {
			slog.DebugContext(ctx, "file search tool unavailable, skipping", "tool", tool)
			continue
		}

		command, err := buildFileCommand(tool, f.platform, glob, dir, maxResults)
		if err != nil {
			lastDiagnostic = err
			continue
		}

		slog.DebugContext(ctx, "executing file search command", "tool", tool)
		result, runErr := f.runner.Run(ctx, command, defaultSearchTimeout)
		if runErr != nil || result.Status != RunnerStatusCompleted {
			slog.WarnContext(ctx, "file search tool failed, falling back", "tool", tool)
			lastDiagnostic = newError(ErrSearchFailed, "command did not complete: "+string(tool), runErr)
			continue
		}

		if result.ExitCode > 1 {
			slog.WarnContext(ctx, "file search tool exited with failure, falling back", "tool", tool, "exit_code", result.ExitCode)
			lastDiagnostic = newError(ErrSearchFailed, "tool exited with code "+strconv.Itoa(result.ExitCode), nil)
			continue
		}

		slog.InfoContext(ctx, "file search tool succeeded", "tool", tool)
		output := result.Output
		if result.ExitCode == 1 {
			output = ""
		}
		return normalizeFileOutput(output, dir, pathType, maxResults)
	}

	sc.RecordError(lastDiagnostic)
	return "", newError(ErrAllSearchersFailed, "every candidate tool was unavailable or failed", lastDiagnostic)
}

// SearchText validates inputs, resolves whether the directory is a git
// repository (stripping GitGrep from the candidate list when it is not),
// and iterates the candidate list. Exit code 0 or 1 both return; an exit
// code above 1 or a non-completed run raises SearchFailed immediately
// (no fallback, unlike file search). Exhausting the list because every
// candidate was unavailable raises NoToolAvailable.
func (t *TextSearch) SearchText(ctx context.Context, pattern, directory string, caseSensitive bool, maxResults *int) (string, error) {
	dir, err := validateDirectory(directory)
	if err != nil {
		return "", err
	}
	re, err := validateRegex(pattern)
	if err != nil {
		return "", err
	}
	if err := validateMaxResults(maxResults); err != nil {
		return "", err
	}

	sc := logger.StartSpan(ctx, "search.text")
	defer sc.End()
	ctx = sc.Context()

	isRepo := t.git.IsGitRepo(ctx, dir)

	candidates := t.tools.Priority(ContextTextSearch)
	if !isRepo {
		candidates = withoutGitGrep(candidates)
		slog.DebugContext(ctx, "directory is not a git repository, excluding git_grep")
	}

	for _, tool := range candidates {
		if !t.tools.IsAvailable(ctx, tool) {
			slog.DebugContext(ctx, "text search tool unavailable, skipping", "tool", tool)
			continue
		}

		command, err := buildTextCommand(tool, t.platform, re, dir, caseSensitive)
		if err != nil {
			sc.RecordError(err)
			return "", err
		}

		slog.DebugContext(ctx, "executing text search command", "tool", tool)
		result, runErr := t.runner.Run(ctx, command, defaultSearchTimeout)
		if runErr != nil || result.Status != RunnerStatusCompleted {
			err := newError(ErrSearchFailed, "command did not complete: "+string(tool), runErr)
			sc.RecordError(err)
			return "", err
		}

		if result.ExitCode > 1 {
			err := newError(ErrSearchFailed, "command "+command+" exited with code "+strconv.Itoa(result.ExitCode)+": "+result.Error, nil)
			sc.RecordError(err)
			return "", err
		}

		slog.InfoContext(ctx, "text search tool succeeded", "tool", tool)
		output := result.Output
		if result.ExitCode == 1 {
			output = ""
		}
		return normalizeTextOutput(output, t.platform, maxResults), nil
	}

	err = newError(ErrNoToolAvailable, "no candidate text search tool is available on this host", nil)
	sc.RecordError(err)
	return "", err
}

func withoutGitGrep(tools []ToolId) []ToolId {
	out := make([]ToolId, 0, len(tools))
	for _, t := range tools {
		if t != ToolGitGrep {
			out = append(out, t)
		}
	}
	return out
}


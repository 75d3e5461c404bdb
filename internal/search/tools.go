package search

import (
	"context"
	"sync"
)

// ToolId tags one of the external search utilities the dispatcher can select.
type ToolId string

const (
	ToolFd            ToolId = "fd"
	ToolRg            ToolId = "rg"
	ToolFind          ToolId = "find"
	ToolDir           ToolId = "dir"
	ToolPowerShellGci ToolId = "powershell_gci"
	ToolGrep          ToolId = "grep"
	ToolGitGrep       ToolId = "git_grep"
	ToolSelectString  ToolId = "select_string"
)

// SearchContext distinguishes which operation a priority list is computed for.
type SearchContext string

const (
	ContextFileSearch SearchContext = "file"
	ContextTextSearch SearchContext = "text"
)

var priorityUnixFile = []ToolId{ToolFd, ToolRg, ToolFind}
var priorityUnixText = []ToolId{ToolRg, ToolGitGrep, ToolGrep}
var priorityWindowsFile = []ToolId{ToolFd, ToolRg, ToolPowerShellGci, ToolDir}
var priorityWindowsText = []ToolId{ToolRg, ToolGitGrep, ToolSelectString}

// ToolRegistry answers availability and priority-order questions for the
// external search utilities. Availability is probed once per tool and
// cached for the life of the process; the cache is a monotonic
// get-or-insert map guarded by a mutex (the workload is cache-miss-light,
// per the concurrency model).
type ToolRegistry struct {
	platform *PlatformProbe
	runner   CommandRunner

	mu        sync.Mutex
	available map[ToolId]bool
}

// NewToolRegistry builds a registry bound to the given platform and runner.
func NewToolRegistry(platform *PlatformProbe, runner CommandRunner) *ToolRegistry {
	return &ToolRegistry{
		platform:  platform,
		runner:    runner,
		available: make(map[ToolId]bool),
	}
}

// Priority returns the ordered candidate-tool list for the host and context.
// For text search, GitGrep is present unconditionally here; the dispatcher
// strips it when the target directory is not a git repository.
func (r *ToolRegistry) Priority(ctx SearchContext) []ToolId {
	var src []ToolId
	switch {
	case r.platform.IsWindows() && ctx == ContextFileSearch:
		src = priorityWindowsFile
	case r.platform.IsWindows() && ctx == ContextTextSearch:
		src = priorityWindowsText
	case !r.platform.IsWindows() && ctx == ContextFileSearch:
		src = priorityUnixFile
	default:
		src = priorityUnixText
	}
	out := make([]ToolId, len(src))
	copy(out, src)
	return out
}

// IsAvailable reports whether tool can be invoked on the host, probing and
// caching the result on first use. Probe failures (timeout, non-zero exit,
// panic-free error) are treated as Unavailable and never propagate.
func (r *ToolRegistry) IsAvailable(ctx context.Context, tool ToolId) bool {
	if tool == ToolDir {
		return true
	}

	r.mu.Lock()
	if v, ok := r.available[tool]; ok {
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()

	available := r.probe(ctx, tool)

	r.mu.Lock()
	r.available[tool] = available
	r.mu.Unlock()

	return available
}

func (r *ToolRegistry) probe(ctx context.Context, tool ToolId) bool {
	const probeTimeout = 5

	var cmd string
	if r.platform.IsWindows() {
		switch tool {
		case ToolSelectString:
			cmd = `powershell -Command "Get-Command Select-String"`
		case ToolPowerShellGci:
			cmd = `powershell -Command "Get-Command Get-ChildItem"`
		case ToolGitGrep:
			cmd = "git --version"
		case ToolFd, ToolRg, ToolFind:
			cmd = "where " + string(tool)
		default:
			cmd = "where " + string(tool)
		}
	} else {
		switch tool {
		case ToolGitGrep:
			cmd = "command -v git"
		default:
			cmd = "command -v " + string(tool)
		}
	}

	result, err := r.runner.Run(ctx, cmd, probeTimeout)
	if err != nil {
		return false
	}
	return result.Status == RunnerStatusCompleted && result.ExitCode == 0
}

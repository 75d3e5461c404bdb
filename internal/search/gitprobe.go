package search

import (
	"context"
	"sync"
)

// GitRepoProbe decides whether a directory lies inside a git working tree,
// caching the result per absolute directory for the life of the process.
type GitRepoProbe struct {
	platform *PlatformProbe
	runner   CommandRunner

	mu    sync.Mutex
	cache map[string]bool
}

// NewGitRepoProbe builds a probe bound to the given platform and runner.
func NewGitRepoProbe(platform *PlatformProbe, runner CommandRunner) *GitRepoProbe {
	return &GitRepoProbe{
		platform: platform,
		runner:   runner,
		cache:    make(map[string]bool),
	}
}

// IsGitRepo runs "git rev-parse --git-dir" with directory as the working
// directory and reports whether it is inside a git working tree. Any
// non-completed or non-zero-exit result is treated as "not a repo".
func (p *GitRepoProbe) IsGitRepo(ctx context.Context, directory string) bool {
	p.mu.Lock()
	if v, ok := p.cache[directory]; ok {
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	const probeTimeout = 5

	var command string
	if p.platform.IsWindows() {
		command = `cd /d ` + QuoteCmd(directory) + ` && git rev-parse --git-dir`
	} else {
		command = `cd ` + QuoteUnix(directory) + ` && git rev-parse --git-dir`
	}

	result, err := p.runner.Run(ctx, command, probeTimeout)
	isRepo := err == nil && result.Status == RunnerStatusCompleted && result.ExitCode == 0

	p.mu.Lock()
	p.cache[directory] = isRepo
	p.mu.Unlock()

	return isRepo
}

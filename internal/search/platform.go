package search

import "runtime"

// PlatformKind tags the host family the search subsystem dispatches for.
type PlatformKind string

const (
	PlatformUnix    PlatformKind = "unix"
	PlatformWindows PlatformKind = "windows"
)

// PlatformProbe detects the host family once per process. It is immutable
// after construction and consumed only when a service singleton is built.
type PlatformProbe struct {
	kind PlatformKind
}

// NewPlatformProbe detects the current host family from runtime.GOOS.
func NewPlatformProbe() *PlatformProbe {
	if runtime.GOOS == "windows" {
		return &PlatformProbe{kind: PlatformWindows}
	}
	return &PlatformProbe{kind: PlatformUnix}
}

// Kind returns the detected platform family.
func (p *PlatformProbe) Kind() PlatformKind {
	return p.kind
}

// IsWindows reports whether the host is Windows.
func (p *PlatformProbe) IsWindows() bool {
	return p.kind == PlatformWindows
}

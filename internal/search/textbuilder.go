package search

import "fmt"

// buildTextCommand produces a shell string emitting one FILE:LINE:CONTENT
// record per match, recursively, including hidden files, using extended
// regex semantics.
func buildTextCommand(tool ToolId, platform *PlatformProbe, pattern, directory string, caseSensitive bool) (string, error) {
	switch tool {
	case ToolGrep:
		return buildGrepCommand(pattern, directory, caseSensitive), nil
	case ToolRg:
		return buildRgTextCommand(pattern, directory, caseSensitive), nil
	case ToolGitGrep:
		return buildGitGrepCommand(platform, pattern, directory, caseSensitive), nil
	case ToolSelectString:
		return buildSelectStringCommand(pattern, directory, caseSensitive), nil
	default:
		return "", newError(ErrExecutionError, "unsupported text search tool: "+string(tool), nil)
	}
}

func buildGrepCommand(pattern, directory string, caseSensitive bool) string {
	flags := "-r -n -H -E"
	if !caseSensitive {
		flags += " -i"
	}
	return fmt.Sprintf("grep %s %s %s", flags, QuoteUnix(pattern), QuoteUnix(directory))
}

func buildRgTextCommand(pattern, directory string, caseSensitive bool) string {
	flags := "--line-number --no-heading --with-filename --hidden"
	if !caseSensitive {
		flags += " --ignore-case"
	}
	return fmt.Sprintf("rg %s %s %s", flags, QuoteUnix(pattern), QuoteUnix(directory))
}

func buildGitGrepCommand(platform *PlatformProbe, pattern, directory string, caseSensitive bool) string {
	flags := "-n --full-name -E"
	if !caseSensitive {
		flags += " -i"
	}
	if platform.IsWindows() {
		return fmt.Sprintf(
			"cd /d %s && git grep %s %s",
			QuoteCmd(directory), flags, QuoteCmd(pattern),
		)
	}
	return fmt.Sprintf(
		"cd %s && git grep %s %s",
		QuoteUnix(directory), flags, QuoteUnix(pattern),
	)
}

func buildSelectStringCommand(pattern, directory string, caseSensitive bool) string {
	ps := fmt.Sprintf(
		"Get-ChildItem -Path %s -Recurse -File | Select-String -Pattern %s",
		QuotePowerShell(directory), QuotePowerShell(pattern),
	)
	if caseSensitive {
		ps += " -CaseSensitive"
	}
	ps += ` | ForEach-Object { "$($_.Path):$($_.LineNumber):$($_.Line)" }`
	return "powershell -Command " + QuoteUnix(ps)
}

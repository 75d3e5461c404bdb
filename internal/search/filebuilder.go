package search

import "fmt"

// buildFileCommand produces a single shell string for tool that searches
// files only, includes hidden entries, recurses, and emits one path per
// line, honoring a native result cap when the tool supports one.
func buildFileCommand(tool ToolId, platform *PlatformProbe, pattern, directory string, maxResults *int) (string, error) {
	switch tool {
	case ToolFd:
		return buildFdFileCommand(pattern, directory, maxResults), nil
	case ToolRg:
		return buildRgFileCommand(pattern, directory), nil
	case ToolFind:
		return buildFindCommand(pattern, directory), nil
	case ToolPowerShellGci:
		return buildPowerShellGciCommand(pattern, directory, maxResults), nil
	case ToolDir:
		return buildDirCommand(pattern, directory), nil
	default:
		return "", newError(ErrExecutionError, "unsupported file search tool: "+string(tool), nil)
	}
}

func buildFdFileCommand(pattern, directory string, maxResults *int) string {
	cmd := fmt.Sprintf(
		"fd --type f --absolute-path --hidden --glob %s --base-directory %s",
		QuoteUnix(pattern), QuoteUnix(directory),
	)
	if maxResults != nil {
		cmd += fmt.Sprintf(" --max-results %d", *maxResults)
	}
	return cmd
}

func buildRgFileCommand(pattern, directory string) string {
	return fmt.Sprintf(
		"rg --files --hidden --glob=%s %s",
		QuoteUnix(pattern), QuoteUnix(directory),
	)
}

func buildFindCommand(pattern, directory string) string {
	return fmt.Sprintf(
		"find %s -type f -name %s",
		QuoteUnix(directory), QuoteUnix(pattern),
	)
}

func buildPowerShellGciCommand(pattern, directory string, maxResults *int) string {
	cmd := fmt.Sprintf(
		"Get-ChildItem -Path %s -Recurse -File -Force -Filter %s | Select-Object -ExpandProperty FullName",
		QuotePowerShell(directory), QuotePowerShell(pattern),
	)
	if maxResults != nil {
		cmd += fmt.Sprintf(" | Select-Object -First %d", *maxResults)
	}
	return "powershell -Command " + QuoteUnix(cmd)
}

func buildDirCommand(pattern, directory string) string {
	target := directory + `\` + pattern
	return fmt.Sprintf("dir %s /s /b /a-d /a", QuoteCmd(target))
}

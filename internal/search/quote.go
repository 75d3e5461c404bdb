package search

import "strings"

// QuoteUnix wraps s in single quotes for a POSIX shell, splicing any
// embedded single quote as '\'' so the string survives untouched.
func QuoteUnix(s string) string {
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// QuoteCmd wraps s in double quotes for cmd.exe, doubling any embedded
// double quote.
func QuoteCmd(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `""`)
	return `"` + escaped + `"`
}

// QuotePowerShell prepares s for embedding inside a double-quoted PowerShell
// string literal: embedded single quotes are doubled (PowerShell's own
// literal-quoting convention) and any double quote is escaped with a
// backtick so the outer double-quoted wrapper is not broken.
func QuotePowerShell(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	escaped = strings.ReplaceAll(escaped, `"`, "`\"")
	return `"` + escaped + `"`
}

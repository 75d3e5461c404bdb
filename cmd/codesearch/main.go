package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/relayforge/relay/internal/search"
)

// codesearch is a manual smoke-test CLI for the search subsystem: it
// exercises search.FileSearch / search.TextSearch directly against a
// directory, with no LLM in the loop.
func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	repoRoot := getEnv("REPO_ROOT", mustGetwd())
	maxResults := getEnvInt("CODESEARCH_MAX_RESULTS", 0)

	fmt.Fprintf(os.Stderr, "codesearch ready (dir=%s)\n", repoRoot)
	fmt.Fprintln(os.Stderr, "commands: 'glob <pattern>', 'grep <pattern>', 'quit'")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			break
		}

		cmd, arg, ok := strings.Cut(line, " ")
		if !ok {
			fmt.Fprintln(os.Stderr, "usage: glob <pattern> | grep <pattern>")
			continue
		}

		var result string
		var err error

		var maxN *int
		if maxResults > 0 {
			maxN = &maxResults
		}

		switch cmd {
		case "glob":
			result, err = search.FileSearchService().SearchFiles(ctx, arg, repoRoot, maxN, search.PathRelative)
		case "grep":
			result, err = search.TextSearchService().SearchText(ctx, arg, repoRoot, true, maxN)
		default:
			fmt.Fprintln(os.Stderr, "unknown command, use 'glob' or 'grep'")
			continue
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(result)
		fmt.Println()
	}

	fmt.Fprintln(os.Stderr, "Goodbye!")
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

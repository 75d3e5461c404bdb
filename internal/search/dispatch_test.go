package search

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func unixPlatform() *PlatformProbe {
	return &PlatformProbe{kind: PlatformUnix}
}

func windowsPlatform() *PlatformProbe {
	return &PlatformProbe{kind: PlatformWindows}
}

var _ = Describe("FileSearch", func() {
	var (
		ctx      context.Context
		platform *PlatformProbe
		runner   *fakeRunner
		fs       *FileSearch
		tmpDir   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		platform = unixPlatform()
		runner = newFakeRunner()
		fs = newFileSearch(platform, runner)

		var err error
		tmpDir, err = os.MkdirTemp("", "file-search-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	It("reports AllSearchersFailed when every tool is unavailable", func() {
		runner.onPrefix("command -v", RunResult{Status: RunnerStatusCompleted, ExitCode: 1})

		_, err := fs.SearchFiles(ctx, "*.py", tmpDir, nil, PathAbsolute)
		Expect(err).To(HaveOccurred())

		var searchErr *Error
		Expect(err).To(BeAssignableToTypeOf(searchErr))
		Expect(err.(*Error).Kind).To(Equal(ErrAllSearchersFailed))
	})

	It("returns InvalidDirectory for a non-existent directory", func() {
		_, err := fs.SearchFiles(ctx, "*.py", "/no/such/dir/at/all", nil, PathAbsolute)
		Expect(err).To(HaveOccurred())
		Expect(err.(*Error).Kind).To(Equal(ErrInvalidDirectory))
	})

	It("returns InvalidPattern for a blank glob", func() {
		_, err := fs.SearchFiles(ctx, "   ", tmpDir, nil, PathAbsolute)
		Expect(err).To(HaveOccurred())
		Expect(err.(*Error).Kind).To(Equal(ErrInvalidPattern))
	})

	It("falls back to the next tool when the first one fails", func() {
		runner.onPrefix("command -v fd", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("command -v rg", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("fd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 2, Error: "bad glob"})
		runner.onPrefix("rg ", RunResult{Status: RunnerStatusCompleted, ExitCode: 0, Output: tmpDir + "/a.py\n"})

		result, err := fs.SearchFiles(ctx, "*.py", tmpDir, nil, PathAbsolute)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("**Found 1 file:**"))
		Expect(result).To(ContainSubstring("a.py"))
	})

	It("treats exit code 1 as zero matches instead of falling back (S1-style empty result)", func() {
		runner.onPrefix("command -v fd", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("fd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 1, Output: "garbage-should-be-ignored"})

		result, err := fs.SearchFiles(ctx, "*.py", tmpDir, nil, PathAbsolute)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("**Found 0 files**"))
	})

	It("caps results with max_results (S2)", func() {
		runner.onPrefix("command -v fd", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("fd ", RunResult{
			Status:   RunnerStatusCompleted,
			ExitCode: 0,
			Output:   tmpDir + "/a.py\n" + tmpDir + "/b.py\n" + tmpDir + "/c.py\n",
		})

		two := 2
		result, err := fs.SearchFiles(ctx, "*.py", tmpDir, &two, PathAbsolute)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("**Found 2 files:**"))
	})
})

var _ = Describe("TextSearch", func() {
	var (
		ctx      context.Context
		platform *PlatformProbe
		runner   *fakeRunner
		ts       *TextSearch
		tmpDir   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		platform = unixPlatform()
		runner = newFakeRunner()
		ts = newTextSearch(platform, runner)

		var err error
		tmpDir, err = os.MkdirTemp("", "text-search-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	It("raises SearchFailed immediately on exit code > 1, with no fallback", func() {
		runner.onPrefix("command -v", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("cd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 1}) // git rev-parse: not a repo
		runner.onPrefix("rg ", RunResult{Status: RunnerStatusCompleted, ExitCode: 2, Error: "boom"})

		_, err := ts.SearchText(ctx, "test", tmpDir, true, nil)
		Expect(err).To(HaveOccurred())
		Expect(err.(*Error).Kind).To(Equal(ErrSearchFailed))

		for _, c := range runner.calls {
			Expect(c).NotTo(HavePrefix("grep "))
		}
	})

	It("rejects an invalid regex before any command executes (S6)", func() {
		_, err := ts.SearchText(ctx, "[unclosed", tmpDir, true, nil)
		Expect(err).To(HaveOccurred())
		Expect(err.(*Error).Kind).To(Equal(ErrInvalidPattern))
		Expect(runner.calls).To(BeEmpty())
	})

	It("returns the zero-match string verbatim on empty output (S5)", func() {
		runner.onPrefix("command -v", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("cd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 128}) // not a repo
		runner.onPrefix("rg ", RunResult{Status: RunnerStatusCompleted, ExitCode: 1})

		result, err := ts.SearchText(ctx, "^TEST", tmpDir, false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("Found 0 matches."))
	})

	It("excludes git_grep from the candidate list outside a git repo (P1)", func() {
		runner.onPrefix("command -v", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("cd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 1})
		runner.onPrefix("rg ", RunResult{Status: RunnerStatusCompleted, ExitCode: 0, Output: tmpDir + "/file1.py:1:def test_function():\n"})

		_, err := ts.SearchText(ctx, "test", tmpDir, true, nil)
		Expect(err).NotTo(HaveOccurred())

		for _, c := range runner.calls {
			Expect(c).NotTo(ContainSubstring("git grep"))
		}
	})

	It("parses a well-formed match set and renders grouped, sorted output (S4)", func() {
		runner.onPrefix("command -v", RunResult{Status: RunnerStatusCompleted, ExitCode: 0})
		runner.onPrefix("cd ", RunResult{Status: RunnerStatusCompleted, ExitCode: 1})
		runner.onPrefix("rg ", RunResult{
			Status:   RunnerStatusCompleted,
			ExitCode: 0,
			Output: tmpDir + "/sub/sub1.py:2:    def test_method(self):\n" +
				tmpDir + "/file1.py:1:def test_function():\n",
		})

		result, err := ts.SearchText(ctx, "test", tmpDir, true, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("Found 2 match(es)."))
		Expect(result).To(ContainSubstring("**" + tmpDir + "/file1.py:**"))
		Expect(result).To(ContainSubstring("- 1: def test_function():"))
		Expect(result).To(ContainSubstring("**" + tmpDir + "/sub/sub1.py:**"))
	})
})

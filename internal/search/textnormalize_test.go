package search

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("normalizeTextOutput", func() {
	It("returns the exact zero-match string for empty input (P5)", func() {
		Expect(normalizeTextOutput("", unixPlatform(), nil)).To(Equal("Found 0 matches."))
		Expect(normalizeTextOutput("   \n  ", unixPlatform(), nil)).To(Equal("Found 0 matches."))
	})

	It("groups matches by file, ascending within each file, files in lexicographic order (P5)", func() {
		raw := "/tmp/proj/sub/sub1.py:2:    def test_method(self):\n" +
			"/tmp/proj/file1.py:1:def test_function():\n"
		result := normalizeTextOutput(raw, unixPlatform(), nil)
		Expect(result).To(Equal(
			"Found 2 match(es).\n" +
				"**/tmp/proj/file1.py:**\n" +
				"- 1: def test_function():\n" +
				"**/tmp/proj/sub/sub1.py:**\n" +
				"- 2:     def test_method(self):",
		))
	})

	It("silently skips malformed records: too few colons, non-integer line number (P7)", func() {
		raw := "good.py:1:first valid\n" +
			"twopartsonly:oops\n" +
			"bad.py:notanumber:skip me\n" +
			"also_good.py:5:second valid\n"
		result := normalizeTextOutput(raw, unixPlatform(), nil)
		Expect(result).To(ContainSubstring("Found 2 match(es)."))
		Expect(result).To(ContainSubstring("good.py"))
		Expect(result).To(ContainSubstring("also_good.py"))
		Expect(result).NotTo(ContainSubstring("twopartsonly"))
		Expect(result).NotTo(ContainSubstring("skip me"))
	})

	It("normalizes path separators to the host convention", func() {
		resultUnix := normalizeTextOutput(`a\b.py:1:x`, unixPlatform(), nil)
		Expect(resultUnix).To(ContainSubstring("a/b.py"))

		resultWin := normalizeTextOutput("a/b.py:1:x", windowsPlatform(), nil)
		Expect(resultWin).To(ContainSubstring(`a\b.py`))
	})

	It("preserves leading whitespace in match content", func() {
		result := normalizeTextOutput("f.py:1:    indented", unixPlatform(), nil)
		Expect(result).To(ContainSubstring("- 1:     indented"))
	})

	It("truncates during the parse pass when max_results is set", func() {
		raw := "a.py:1:x\na.py:2:y\na.py:3:z\n"
		two := 2
		result := normalizeTextOutput(raw, unixPlatform(), &two)
		Expect(result).To(ContainSubstring("Found 2 match(es)."))
		Expect(result).NotTo(ContainSubstring("- 3: z"))
	})
})

package normalization

import (
	"regexp"
	"strings"
)

// Promotional and injected text that PDF extraction drags into question
// bodies. Each pattern is replaced with a single space before whitespace is
// collapsed.
var cleanerPatterns = []*regexp.Regexp{
	// LaTeX structure commands that never belong in a question body.
	regexp.MustCompile(`(?i)\\section\*?\{[^}]*\}`),
	regexp.MustCompile(`(?i)\\caption\{[^}]*\}`),
	regexp.MustCompile(`(?i)\\author\{[^}]*\}`),

	// Coaching-site ad copy.
	regexp.MustCompile(`(?i)\d+,?\d*\+?\s*Mock Tests?`),
	regexp.MustCompile(`(?i)\d+\+?\s*Exam Covered`),
	regexp.MustCompile(`(?i)Test Prime.*?SUBSCRIPTION`),
	regexp.MustCompile(`(?i)ALL EXAMS.*?SUBSCRIPTION`),
	regexp.MustCompile(`(?i)Personalised Report Card`),
	regexp.MustCompile(`(?i)Previous Year Papers`),
	regexp.MustCompile(`(?i)Unlimited Re-Attempt`),
	regexp.MustCompile(`(?i)\d+%\s*Refund`),

	// Source metadata tails.
	regexp.MustCompile(`(?i)Question ID\s*:\s*\d+`),
	regexp.MustCompile(`(?i)Option \d+ ID\s*:\s*\d+`),
	regexp.MustCompile(`(?i)Status\s*:\s*\w+`),
	regexp.MustCompile(`(?i)Chosen Option\s*:\s*\d+`),
}

var spaceRunRe = regexp.MustCompile(`\s+`)

// CleanQuestionText strips promotional and injected text from a question
// body and collapses whitespace. It deliberately leaves math macros alone;
// NormalizeMath owns those.
func CleanQuestionText(text string) string {
	cleaned := text
	for _, p := range cleanerPatterns {
		cleaned = p.ReplaceAllString(cleaned, " ")
	}
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(cleaned, " "))
}

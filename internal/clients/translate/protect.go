package translate

import (
	"fmt"
	"regexp"
	"strconv"
)

// Math and markup spans are extracted to placeholders before the text goes
// to the external translator, and re-inserted afterwards, so the translator
// never sees a formula. Order matters: delimited spans first, then loose
// commands.
var protectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\includegraphics\{[^}]+\}`),
	regexp.MustCompile(`\$[^$]+\$`),
	regexp.MustCompile(`\\\([^)]+\\\)`),
	regexp.MustCompile(`\\\[[^\]]+\\\]`),
	regexp.MustCompile(`\\[a-zA-Z]+(\{[^}]*\})?`),
}

// Translators tend to mangle placeholder case and spacing, so restoration
// is case-insensitive.
var placeholderRe = regexp.MustCompile(`(?i)__MATH_(\d+)__`)

// ProtectMath masks every math/markup span with an indexed placeholder and
// returns the masked text plus the spans in placeholder order.
func ProtectMath(text string) (string, []string) {
	var spans []string
	masked := text
	for _, p := range protectPatterns {
		masked = p.ReplaceAllStringFunc(masked, func(m string) string {
			spans = append(spans, m)
			return fmt.Sprintf("__MATH_%d__", len(spans)-1)
		})
	}
	return masked, spans
}

// RestoreMath re-inserts protected spans. Placeholders with an out-of-range
// index are left as-is.
func RestoreMath(text string, spans []string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(spans) {
			return m
		}
		return spans[idx]
	})
}

// missingSpans reports the indexes of protected spans whose placeholder no
// longer appears in the translated text.
func missingSpans(translated string, spans []string) []int {
	if len(spans) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(spans))
	for _, m := range placeholderRe.FindAllStringSubmatch(translated, -1) {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			seen[idx] = true
		}
	}
	var missing []int
	for i := range spans {
		if !seen[i] {
			missing = append(missing, i)
		}
	}
	return missing
}

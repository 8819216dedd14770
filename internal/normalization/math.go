package normalization

import (
	"regexp"
	"strings"
)

var (
	// \( ... \) -> $ ... $
	inlineParenRe = regexp.MustCompile(`\\\((.*?)\\\)`)

	// A naked \frac{A}{B}. Each argument tolerates one level of nested
	// braces, so \frac{2^{2}}{4} matches but deeper nesting does not.
	fracRe = regexp.MustCompile(`\\frac\{(?:[^{}]|\{[^}]*\})+\}\{(?:[^{}]|\{[^}]*\})+\}`)
)

// NormalizeMath rewrites inline math into the canonical $-delimited form the
// renderer expects: \( ... \) becomes $ ... $, and a bare \frac{A}{B} is
// wrapped as $\frac{A}{B}$ unless it already sits inside a math span.
//
// Inputs with unbalanced braces are returned byte-identical: a partial
// rewrite of a broken formula would be worse than leaving it alone, and the
// output must never be unbalanced. The function is idempotent.
func NormalizeMath(text string) string {
	if !balancedBraces(text) {
		return text
	}

	out := inlineParenRe.ReplaceAllString(text, `$$${1}$$`)

	// Wrap naked fractions, but only outside existing $ spans so an
	// already-normalized input passes through untouched.
	var b strings.Builder
	b.Grow(len(out))
	inMath := false
	start := 0
	flush := func(end int) {
		seg := out[start:end]
		if inMath {
			b.WriteString(seg)
		} else {
			b.WriteString(fracRe.ReplaceAllString(seg, `$$${0}$$`))
		}
	}
	for i := 0; i < len(out); i++ {
		if out[i] == '$' {
			flush(i)
			b.WriteByte('$')
			inMath = !inMath
			start = i + 1
		}
	}
	flush(len(out))
	return b.String()
}

// HasBalancedBraces reports whether every structural { has a matching }.
// Callers use it to tell "left alone because malformed" apart from "already
// normal"; NormalizeMath itself never touches unbalanced input.
func HasBalancedBraces(s string) bool {
	return balancedBraces(s)
}

// balancedBraces reports whether every structural { has a matching }.
// Escaped literal braces (\{ and \}) do not count.
func balancedBraces(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip the escaped character
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

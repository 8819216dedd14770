package translate

import (
	"strings"
	"testing"
)

func TestProtectRestoreRoundTrip(t *testing.T) {
	cases := []string{
		`Evaluate \frac{1}{2} of the total.`,
		`Given $x^{2}+1$ and \(y-3\), find y.`,
		`Figure: \includegraphics{fig_1.png} shows a triangle.`,
		`Display: \[a+b\] inline: $c$`,
		"no math here",
	}
	for _, in := range cases {
		masked, spans := ProtectMath(in)
		for _, span := range spans {
			if strings.Contains(masked, span) {
				t.Fatalf("span %q survived masking in %q", span, masked)
			}
		}
		if got := RestoreMath(masked, spans); got != in {
			t.Fatalf("round trip of %q: got %q", in, got)
		}
	}
}

func TestRestoreMathMangledPlaceholder(t *testing.T) {
	masked, spans := ProtectMath(`half is \frac{1}{2}`)
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %v", spans)
	}
	// Translators love to re-case placeholders.
	mangled := strings.ReplaceAll(masked, "__MATH_0__", "__math_0__")
	if got := RestoreMath(mangled, spans); !strings.Contains(got, `\frac{1}{2}`) {
		t.Fatalf("mangled placeholder not restored: %q", got)
	}
}

func TestMissingSpans(t *testing.T) {
	_, spans := ProtectMath(`$a$ and $b$`)
	if len(spans) != 2 {
		t.Fatalf("expected two spans, got %v", spans)
	}
	if missing := missingSpans("__MATH_0__ only", spans); len(missing) != 1 || missing[0] != 1 {
		t.Fatalf("missingSpans: got %v", missing)
	}
	if missing := missingSpans("__MATH_0__ __MATH_1__", spans); missing != nil {
		t.Fatalf("expected none missing, got %v", missing)
	}
}

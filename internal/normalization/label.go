package normalization

import "strings"

// Characters that are unsafe in filesystem path components and display keys.
var labelReplacer = strings.NewReplacer(
	"<", "-",
	">", "-",
	":", "-",
	`"`, "-",
	"/", "-",
	`\`, "-",
	"|", "-",
	"?", "-",
	"*", "-",
)

// SanitizeLabel replaces every reserved character with a hyphen and trims
// surrounding whitespace. Idempotent; the output never contains a reserved
// character.
func SanitizeLabel(text string) string {
	return strings.TrimSpace(labelReplacer.Replace(text))
}

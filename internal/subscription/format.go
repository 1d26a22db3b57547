package subscription

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nameSeparators = regexp.MustCompile(`[\s_-]+`)

// FormatServiceName turns a raw merchant name into a display name: split on
// whitespace, underscores and hyphens, capitalize each word, lowercase the rest.
func FormatServiceName(merchantName string) string {
	words := nameSeparators.Split(strings.TrimSpace(merchantName), -1)
	out := words[:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		out = append(out, string(unicode.ToUpper(r))+strings.ToLower(w[size:]))
	}
	return strings.Join(out, " ")
}

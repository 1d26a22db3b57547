// Package merchant derives merchant names and grouping keys from raw
// transaction labels.
package merchant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyLength is the maximum length of a grouping key.
const KeyLength = 20

// minNameLength is the shortest description-derived merchant name we accept.
const minNameLength = 3

// noisePatterns strip payment-rail noise from free-text descriptions. Each
// pattern is applied once, in order, to the output of the previous one, so
// "POS NETFLIX 123456 CA" loses "CA" but keeps "123456".
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(pos|debit|credit|ach|wire|transfer|payment|purchase)\s+`),
	regexp.MustCompile(`(?i)\s+(pos|debit|credit|ach|wire|transfer|payment|purchase)$`),
	regexp.MustCompile(`\s+\d{4,}$`),
	regexp.MustCompile(`\s+[A-Z]{2}$`),
}

// Extract returns the merchant name for a transaction. An explicit merchant
// label wins; otherwise the name is derived from the description. The second
// return value is false when no usable merchant could be derived.
func Extract(merchantName, description string) (string, bool) {
	if name := strings.TrimSpace(merchantName); name != "" {
		return name, true
	}
	return FromDescription(description)
}

// FromDescription strips transactional noise from a free-text description.
func FromDescription(description string) (string, bool) {
	name := strings.TrimSpace(description)
	for _, re := range noisePatterns {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) < minNameLength {
		return "", false
	}
	return name, true
}

// Key builds the grouping key for a merchant name: lowercased, everything but
// ASCII letters and digits removed, truncated to KeyLength. Accented letters
// are dropped, not folded, so "Café" keys as "caf".
//
// The key is lossy. Two merchants sharing their first KeyLength alphanumeric
// characters collide ("Blue Apron Meal Kits Delivery" and "Blue Apron Meal Kits
// Delivery Plus" produce the same key). Callers use it only as a join key, never as an identity.
func Key(name string) string {
	var b strings.Builder
	b.Grow(KeyLength)
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == KeyLength {
				break
			}
		}
	}
	return b.String()
}

// Fold lowercases name and strips diacritics. It is for search and display
// only; grouping and matching use Key.
func Fold(name string) string {
	folded, _, err := transform.String(foldAccents(), name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ContainsFold reports whether query occurs in name, ignoring case and accents.
// An empty query matches everything.
func ContainsFold(name, query string) bool {
	return strings.Contains(Fold(name), Fold(query))
}

// foldAccents returns a fresh transformer; transformers carry state and are not
// safe to share between goroutines.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Matches reports whether two merchant names refer to the same merchant under
// the permissive matching rule: either normalized key contains the other.
// A generic name such as "Prime" therefore matches "Amazon Prime Video".
func Matches(a, b string) bool {
	ka, kb := Key(a), Key(b)
	if ka == "" || kb == "" {
		return false
	}
	return strings.Contains(ka, kb) || strings.Contains(kb, ka)
}

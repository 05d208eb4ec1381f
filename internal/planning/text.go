package planning

import (
	"strings"
	"unicode"
)

// normalizeText lowercases s and collapses it to space-separated alphanumeric
// tokens, so matching is insensitive to case, punctuation, and spacing.
func normalizeText(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// containsNormalizedPhrase reports whether normalized text contains the
// normalized phrase as a whole-token sequence. Padding both sides with a
// space bounds the match, so "works" is found in "it works" but not in
// "networks".
func containsNormalizedPhrase(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// matchDenyTerm returns the first denylist term the criterion contains, in
// denylist order. The second return is false when the criterion is clean.
func matchDenyTerm(criterion string, denylist []string) (string, bool) {
	normalized := normalizeText(criterion)
	for _, term := range denylist {
		if containsNormalizedPhrase(normalized, normalizeText(term)) {
			return term, true
		}
	}
	return "", false
}

package memes

import "strings"

// MaxTags is the most tags a meme keeps; extra tags are dropped silently.
const MaxTags = 5

// MaxTagLength bounds a normalized tag; longer tags are truncated.
const MaxTagLength = 20

// NormalizeTags lowercases each tag and strips everything but ASCII letters
// and digits, truncating to MaxTagLength. Empty results and repeats are dropped, first occurrence wins, and
// at most MaxTags survive.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, MaxTags)
	seen := make(map[string]bool, len(raw))
	for _, tag := range raw {
		if len(out) == MaxTags {
			break
		}
		norm := normalizeTag(tag)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}

func normalizeTag(tag string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tag) {
		if b.Len() == MaxTagLength {
			break
		}
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

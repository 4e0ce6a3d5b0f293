package models

import "strings"

// DecodeTags splits the stored comma joined tag string. Tokens are trimmed
// and empty ones dropped, so "a, b,," yields [a b]. Case is preserved.
func DecodeTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// EncodeTags joins tags into their stored representation.
func EncodeTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

// NormalizeTags round-trips free form user input through the codec.
func NormalizeTags(raw string) string {
	return EncodeTags(DecodeTags(raw))
}

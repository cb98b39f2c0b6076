package descriptor

import (
	"regexp"
	"strings"
)

var labelSeparators = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabel converts a field name into a human-friendly label, splitting on
// underscores, dashes, and camelCase boundaries: "createdAt" -> "Created At".
func DefaultLabel(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range labelSeparators.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleWords(splitCamelWord(word))...)
	}
	return strings.Join(segments, " ")
}

func splitCamelWord(word string) []string {
	var (
		out     []string
		current strings.Builder
	)
	runes := []rune(word)
	for i, r := range runes {
		if i > 0 && camelBoundary(runes[i-1], r) {
			out = append(out, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func camelBoundary(prev, r rune) bool {
	switch {
	case isLower(prev) && isUpper(r):
		return true
	case isLetter(prev) && isDigit(r):
		return true
	case isDigit(prev) && isLetter(r):
		return true
	default:
		return false
	}
}

func titleWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		out = append(out, strings.ToUpper(lower[:1])+lower[1:])
	}
	return out
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

package posture

import "strings"

// Wrap splits text into lines whose measured width does not exceed maxWidth.
//
// The algorithm is a greedy word wrap: words are appended to the current line
// while the joined line still fits; the first word that would overflow closes
// the line and starts the next one. A single word wider than maxWidth gets a
// line of its own, unsplit, so the caller can decide how to handle it.
//
// Wrap is pure and stateless; it can be called repeatedly with different
// maxWidth values for different columns. Empty or whitespace-only input
// produces zero lines, not one empty line.
func Wrap(text string, font Font, size, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current []string
	for _, word := range words {
		candidate := strings.Join(append(current, word), " ")
		if StringWidth(candidate, font, size) <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// WrapClamped wraps text and keeps at most maxLines lines. A maxLines of 0 or
// less means no limit.
func WrapClamped(text string, font Font, size, maxWidth float64, maxLines int) []string {
	lines := Wrap(text, font, size, maxWidth)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

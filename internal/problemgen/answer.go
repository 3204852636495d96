package problemgen

import (
	"strconv"
	"strings"
)

// AnswerMatches reports whether an option's text denotes the integer answer.
//
// Normalization rules:
// - Whitespace is trimmed
// - Leading zeros are ignored (e.g., "007" matches 7)
// - Non-numeric text never matches
func AnswerMatches(text string, answer int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	return n == answer
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

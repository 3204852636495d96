package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// OptionCount is the number of choices offered for every problem.
const OptionCount = 4

// maxDistractorAttempts bounds the rejection loop for one distractor before
// falling back to a deterministic scan.
const maxDistractorAttempts = 64

// DistractorWindow returns the maximum distance of a distractor from the
// correct answer: max(3, floor(correct*0.2)).
func DistractorWindow(correct int) int {
	w := correct / 5
	if w < 3 {
		return 3
	}
	return w
}

// BuildOptions returns four shuffled options for a problem, exactly one of
// which carries the correct answer. Distractors lie within
// DistractorWindow(correct) of the answer, are never below 1, and are
// distinct from each other and from the answer.
func BuildOptions(rng *rand.Rand, problemID string, correct int) []Option {
	values := make([]int, 0, OptionCount)
	values = append(values, correct)
	seen := map[int]bool{correct: true}

	window := DistractorWindow(correct)
	for len(values) < OptionCount {
		d, ok := drawDistractor(rng, correct, window, seen)
		if !ok {
			d = scanDistractor(correct, seen)
		}
		seen[d] = true
		values = append(values, d)
	}

	Shuffle(rng, values)

	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{
			ID:   fmt.Sprintf("%s-option-%d", problemID, i),
			Text: strconv.Itoa(v),
		}
	}
	return opts
}

// drawDistractor perturbs correct by ±[1, window], flooring at 1, and
// regenerates on collision.
func drawDistractor(rng *rand.Rand, correct, window int, seen map[int]bool) (int, bool) {
	for range maxDistractorAttempts {
		offset := 1 + rng.IntN(window)
		if rng.IntN(2) == 0 {
			offset = -offset
		}
		d := max(correct+offset, 1)
		if !seen[d] {
			return d, true
		}
	}
	return 0, false
}

// scanDistractor walks outward from correct for the nearest unused positive
// value. Only reached when the random draw keeps colliding, which can
// happen for answers near 1 where the floor folds many offsets together.
func scanDistractor(correct int, seen map[int]bool) int {
	for step := 1; ; step++ {
		if up := correct + step; !seen[up] {
			return up
		}
		if down := correct - step; down >= 1 && !seen[down] {
			return down
		}
	}
}

// CorrectOption returns the option whose text matches the answer, if any.
func CorrectOption(opts []Option, correct int) (Option, bool) {
	for _, o := range opts {
		if AnswerMatches(o.Text, correct) {
			return o, true
		}
	}
	return Option{}, false
}

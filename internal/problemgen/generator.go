package problemgen

import (
	"fmt"
	"math/rand/v2"
)

// operandRange is an inclusive integer range.
type operandRange struct{ lo, hi int }

func (r operandRange) pick(rng *rand.Rand) int {
	return r.lo + rng.IntN(r.hi-r.lo+1)
}

// tierRanges holds the first and second operand ranges for one tier.
type tierRanges struct{ a, b operandRange }

var (
	additionTiers = map[int]tierRanges{
		1: {operandRange{1, 9}, operandRange{1, 9}},
		2: {operandRange{10, 99}, operandRange{10, 99}},
		3: {operandRange{100, 999}, operandRange{100, 999}},
	}

	// Subtraction tier 1 draws b from 1..a, so only a's range is listed.
	subtractionTiers = map[int]tierRanges{
		1: {operandRange{5, 13}, operandRange{}},
		2: {operandRange{50, 139}, operandRange{10, 49}},
		3: {operandRange{200, 1099}, operandRange{50, 199}},
	}

	multiplicationTiers = map[int]tierRanges{
		1: {operandRange{1, 5}, operandRange{1, 10}},
		2: {operandRange{1, 10}, operandRange{1, 10}},
		3: {operandRange{1, 12}, operandRange{1, 12}},
		4: {operandRange{10, 99}, operandRange{1, 9}},
	}

	// Division ranges are quotient then divisor; the dividend is derived.
	divisionTiers = map[int]tierRanges{
		1: {operandRange{1, 10}, operandRange{2, 10}},
		2: {operandRange{1, 20}, operandRange{2, 10}},
		3: {operandRange{1, 50}, operandRange{2, 13}},
	}
)

// tier returns the ranges for difficulty, or the fallback tier if the
// difficulty has no ranges of its own.
func tier(tiers map[int]tierRanges, difficulty, fallback int) tierRanges {
	if t, ok := tiers[difficulty]; ok {
		return t
	}
	return tiers[fallback]
}

// Generate produces exactly count problems of one operation and difficulty.
// IDs are unique within the returned batch. Unknown operations produce
// addition problems.
func Generate(rng *rand.Rand, op Operation, difficulty, count int) []Problem {
	if count <= 0 {
		return nil
	}
	if !op.Valid() {
		op = Addition
	}

	batch := batchToken(rng)
	problems := make([]Problem, 0, count)
	for i := 0; i < count; i++ {
		a, b, answer := operands(rng, op, difficulty)
		problems = append(problems, Problem{
			ID:            fmt.Sprintf("%s-%d-%s", op.idPrefix(), i, batch),
			Question:      FormatQuestion(op, a, b),
			CorrectAnswer: answer,
			Operation:     op,
			Difficulty:    difficulty,
			Hint:          hintFor(op, a, b),
			Explanation:   fmt.Sprintf("%d %s %d = %d", a, op.Symbol(), b, answer),
		})
	}
	return problems
}

// GenerateMixed expands every config in order, concatenates the results and
// shuffles the combined list once.
func GenerateMixed(rng *rand.Rand, configs []ProblemConfig) []Problem {
	var all []Problem
	for _, c := range configs {
		all = append(all, Generate(rng, c.Operation, c.Difficulty, c.Count)...)
	}
	Shuffle(rng, all)
	return all
}

// Shuffle permutes items in place with a Fisher–Yates pass driven by rng.
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// FormatQuestion renders the canonical question text for two operands.
func FormatQuestion(op Operation, a, b int) string {
	return fmt.Sprintf("%d %s %d = ?", a, op.Symbol(), b)
}

// operands draws the two operands and the exact answer for op at difficulty.
func operands(rng *rand.Rand, op Operation, difficulty int) (a, b, answer int) {
	switch op {
	case Subtraction:
		t := tier(subtractionTiers, difficulty, 1)
		a = t.a.pick(rng)
		if t.b == (operandRange{}) {
			b = operandRange{1, a}.pick(rng)
		} else {
			b = t.b.pick(rng)
		}
		return a, b, a - b

	case Multiplication:
		t := tier(multiplicationTiers, difficulty, 2)
		a, b = t.a.pick(rng), t.b.pick(rng)
		return a, b, a * b

	case Division:
		t := tier(divisionTiers, difficulty, 1)
		quotient, divisor := t.a.pick(rng), t.b.pick(rng)
		return quotient * divisor, divisor, quotient

	default:
		t := tier(additionTiers, difficulty, 1)
		a, b = t.a.pick(rng), t.b.pick(rng)
		return a, b, a + b
	}
}

func hintFor(op Operation, a, b int) string {
	switch op {
	case Subtraction:
		return fmt.Sprintf("Think: what number plus %d equals %d?", b, a)
	case Multiplication:
		return fmt.Sprintf("Think of %d groups of %d, or %d groups of %d", a, b, b, a)
	case Division:
		return fmt.Sprintf("Think: %d times what number equals %d?", b, a)
	default:
		return fmt.Sprintf("Start with %d and count up %d more", a, b)
	}
}

// batchToken is a short random token that keeps IDs from separate batches
// apart.
func batchToken(rng *rand.Rand) string {
	return fmt.Sprintf("%06x", rng.Uint32()&0xffffff)
}

package problemgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerate_Count(t *testing.T) {
	rng := testRNG(1)
	for _, op := range Operations {
		for d := MinDifficulty; d <= MaxDifficulty; d++ {
			got := Generate(rng, op, d, 7)
			if len(got) != 7 {
				t.Errorf("Generate(%s, %d, 7) returned %d problems", op, d, len(got))
			}
		}
	}
	if got := Generate(rng, Addition, 1, 0); len(got) != 0 {
		t.Errorf("Generate with count 0 returned %d problems", len(got))
	}
}

func TestGenerate_AnswersRederive(t *testing.T) {
	rng := testRNG(2)
	for _, op := range Operations {
		for d := MinDifficulty; d <= MaxDifficulty; d++ {
			for _, p := range Generate(rng, op, d, 50) {
				got, err := ComputeAnswer(p.Question)
				if err != nil {
					t.Fatalf("%s: %v", p.Question, err)
				}
				if got != p.CorrectAnswer {
					t.Errorf("%s: computed %d, stored %d", p.Question, got, p.CorrectAnswer)
				}
				if err := Validate(&p); err != nil {
					t.Errorf("%s: %v", p.Question, err)
				}
			}
		}
	}
}

func TestGenerate_Ranges(t *testing.T) {
	tests := []struct {
		op         Operation
		difficulty int
		aLo, aHi   int
		bLo, bHi   int
	}{
		{Addition, 1, 1, 9, 1, 9},
		{Addition, 2, 10, 99, 10, 99},
		{Addition, 3, 100, 999, 100, 999},
		{Addition, 5, 1, 9, 1, 9},
		{Subtraction, 1, 5, 13, 1, 13},
		{Subtraction, 2, 50, 139, 10, 49},
		{Subtraction, 3, 200, 1099, 50, 199},
		{Subtraction, 4, 5, 13, 1, 13},
		{Multiplication, 1, 1, 5, 1, 10},
		{Multiplication, 2, 1, 10, 1, 10},
		{Multiplication, 3, 1, 12, 1, 12},
		{Multiplication, 4, 10, 99, 1, 9},
		{Multiplication, 5, 1, 10, 1, 10},
	}

	rng := testRNG(3)
	for _, tc := range tests {
		for _, p := range Generate(rng, tc.op, tc.difficulty, 100) {
			m := arithRe.FindStringSubmatch(p.Question)
			a, b := atoiOrZero(m[1]), atoiOrZero(m[3])
			if a < tc.aLo || a > tc.aHi || b < tc.bLo || b > tc.bHi {
				t.Errorf("%s tier %d: %q outside [%d,%d]x[%d,%d]",
					tc.op, tc.difficulty, p.Question, tc.aLo, tc.aHi, tc.bLo, tc.bHi)
			}
		}
	}
}

func TestGenerate_SubtractionNeverNegative(t *testing.T) {
	rng := testRNG(4)
	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		for _, p := range Generate(rng, Subtraction, d, 200) {
			if p.CorrectAnswer < 0 {
				t.Errorf("%s produced negative answer %d", p.Question, p.CorrectAnswer)
			}
		}
	}
}

func TestGenerate_DivisionExact(t *testing.T) {
	tests := []struct {
		difficulty int
		qHi, dHi   int
	}{
		{1, 10, 10},
		{2, 20, 10},
		{3, 50, 13},
		{4, 10, 10},
	}

	rng := testRNG(5)
	for _, tc := range tests {
		for _, p := range Generate(rng, Division, tc.difficulty, 100) {
			m := arithRe.FindStringSubmatch(p.Question)
			dividend, divisor := atoiOrZero(m[1]), atoiOrZero(m[3])
			if dividend%divisor != 0 {
				t.Errorf("%s is not exact", p.Question)
			}
			if divisor < 2 || divisor > tc.dHi {
				t.Errorf("tier %d divisor %d out of range", tc.difficulty, divisor)
			}
			if p.CorrectAnswer < 1 || p.CorrectAnswer > tc.qHi {
				t.Errorf("tier %d quotient %d out of range", tc.difficulty, p.CorrectAnswer)
			}
		}
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	rng := testRNG(6)
	seen := map[string]bool{}
	for _, p := range Generate(rng, Multiplication, 2, 25) {
		if seen[p.ID] {
			t.Errorf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
		if !strings.HasPrefix(p.ID, "mult-") {
			t.Errorf("id %q missing operation prefix", p.ID)
		}
	}
}

func TestGenerate_TextAndHints(t *testing.T) {
	rng := testRNG(7)

	add := Generate(rng, Addition, 1, 1)[0]
	if !strings.Contains(add.Question, " + ") || !strings.HasSuffix(add.Question, " = ?") {
		t.Errorf("unexpected addition text %q", add.Question)
	}
	if !strings.HasPrefix(add.Hint, "Start with ") {
		t.Errorf("unexpected addition hint %q", add.Hint)
	}

	mul := Generate(rng, Multiplication, 2, 1)[0]
	if !strings.Contains(mul.Question, " × ") {
		t.Errorf("multiplication should use ×: %q", mul.Question)
	}

	div := Generate(rng, Division, 1, 1)[0]
	if !strings.Contains(div.Question, " ÷ ") {
		t.Errorf("division should use ÷: %q", div.Question)
	}
	if !strings.HasSuffix(div.Explanation, "= "+strconv.Itoa(div.CorrectAnswer)) {
		t.Errorf("explanation %q should end with the answer", div.Explanation)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(testRNG(42), Addition, 2, 5)
	b := Generate(testRNG(42), Addition, 2, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different problems at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateMixed(t *testing.T) {
	configs := []ProblemConfig{
		{Operation: Addition, Difficulty: 2, Count: 3},
		{Operation: Subtraction, Difficulty: 2, Count: 3},
		{Operation: Multiplication, Difficulty: 1, Count: 2},
		{Operation: Division, Difficulty: 1, Count: 2},
	}
	got := GenerateMixed(testRNG(8), configs)
	if len(got) != 10 {
		t.Fatalf("expected 10 problems, got %d", len(got))
	}

	counts := map[Operation]int{}
	for _, p := range got {
		counts[p.Operation]++
	}
	want := map[Operation]int{Addition: 3, Subtraction: 3, Multiplication: 2, Division: 2}
	for op, n := range want {
		if counts[op] != n {
			t.Errorf("%s: got %d problems, want %d", op, counts[op], n)
		}
	}
}

func TestShuffle_Permutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(testRNG(9), items)

	sum := 0
	for _, v := range items {
		sum += v
	}
	if sum != 36 || len(items) != 8 {
		t.Errorf("shuffle changed contents: %v", items)
	}
}

package problemgen

import (
	"errors"
	"testing"
)

func TestComputeAnswer(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"7 + 5 = ?", 12},
		{"13 - 8 = ?", 5},
		{"6 × 7 = ?", 42},
		{"6 * 7 = ?", 42},
		{"56 ÷ 8 = ?", 7},
		{"56 / 8 = ?", 7},
		{"7 / 2 = ?", 3},
		{"What is 345 + 278?", 623},
		{"12+30", 42},
		{"-7 / 2", -4},
	}
	for _, tc := range tests {
		got, err := ComputeAnswer(tc.text)
		if err != nil {
			t.Errorf("ComputeAnswer(%q): %v", tc.text, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ComputeAnswer(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestComputeAnswer_NotComputable(t *testing.T) {
	for _, text := range []string{"", "What is seven plus five?", "42"} {
		if _, err := ComputeAnswer(text); !errors.Is(err, ErrNotComputable) {
			t.Errorf("ComputeAnswer(%q) err = %v, want ErrNotComputable", text, err)
		}
	}
	if _, err := ComputeAnswer("5 ÷ 0 = ?"); err == nil {
		t.Error("division by zero should fail")
	}
}

func TestMathCheck(t *testing.T) {
	v := &MathCheckValidator{}

	p := validProblem()
	if err := v.Validate(p); err != nil {
		t.Fatalf("correct problem should pass: %v", err)
	}

	p.CorrectAnswer = 13
	if err := v.Validate(p); err == nil {
		t.Fatal("wrong answer should fail")
	}

	p.Question = "seven plus five"
	if err := v.Validate(p); err == nil {
		t.Fatal("non-computable question should fail")
	}
}

func validProblem() *Problem {
	return &Problem{
		ID:            "add-0-test",
		Question:      "7 + 5 = ?",
		CorrectAnswer: 12,
		Operation:     Addition,
		Difficulty:    1,
		Hint:          "Start with 7 and count up 5 more",
		Explanation:   "7 + 5 = 12",
	}
}

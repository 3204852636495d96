package problemgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNotComputable is returned when question text holds no recognizable
// "number op number" expression.
var ErrNotComputable = errors.New("not computable")

// arithRe matches the first binary expression in a question. Both the
// display symbols (×, ÷) and their ASCII forms (*, /) are accepted.
var arithRe = regexp.MustCompile(`(-?\d+)\s*([+\-×÷*/])\s*(-?\d+)`)

// ComputeAnswer re-derives the answer from question text. Division floors.
func ComputeAnswer(question string) (int, error) {
	m := arithRe.FindStringSubmatch(question)
	if m == nil {
		return 0, ErrNotComputable
	}

	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("left operand: %w", err)
	}
	b, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("right operand: %w", err)
	}

	switch normalizeOp(m[2]) {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return floorDiv(a, b), nil
	}
	return 0, fmt.Errorf("unsupported operator: %s", m[2])
}

// normalizeOp normalizes multiplication and division symbols.
func normalizeOp(op string) string {
	switch op {
	case "×":
		return "*"
	case "÷":
		return "/"
	default:
		return op
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MathCheckValidator re-derives the answer from the question text and
// rejects problems whose stored answer disagrees.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(p *Problem) *ValidationError {
	computed, err := ComputeAnswer(p.Question)
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if computed != p.CorrectAnswer {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but problem claims %d", computed, p.CorrectAnswer),
		}
	}
	return nil
}

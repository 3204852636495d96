package problemgen

import "strings"

// StructuralValidator checks that required fields are present and within
// range.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if p.ID == "" {
		return &ValidationError{Validator: v.Name(), Message: "id is empty"}
	}
	if strings.TrimSpace(p.Question) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if !p.Operation.Valid() {
		return &ValidationError{Validator: v.Name(), Message: "unknown operation " + string(p.Operation)}
	}
	if p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty {
		return &ValidationError{Validator: v.Name(), Message: "difficulty must be between 1 and 5"}
	}
	if p.Explanation == "" {
		return &ValidationError{Validator: v.Name(), Message: "explanation is empty"}
	}
	return nil
}

// OperandValidator enforces the per-operation guarantees: subtraction never
// goes negative and division is always exact.
type OperandValidator struct{}

func (v *OperandValidator) Name() string { return "operand" }

func (v *OperandValidator) Validate(p *Problem) *ValidationError {
	m := arithRe.FindStringSubmatch(p.Question)
	if m == nil {
		return &ValidationError{Validator: v.Name(), Message: ErrNotComputable.Error()}
	}
	switch p.Operation {
	case Subtraction:
		if p.CorrectAnswer < 0 {
			return &ValidationError{Validator: v.Name(), Message: "subtraction result is negative"}
		}
	case Division:
		a, b := atoiOrZero(m[1]), atoiOrZero(m[3])
		if b == 0 || a%b != 0 {
			return &ValidationError{Validator: v.Name(), Message: "division is not exact"}
		}
	}
	return nil
}

package problemgen

import "fmt"

// Validator checks a generated problem for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "structural" or "math-check".
	Name() string

	// Validate returns nil if the problem passes.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the standard chain run over generated problems.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&MathCheckValidator{},
		&OperandValidator{},
	}
}

// Validate runs validators in order and stops at the first failure.
func Validate(p *Problem, validators ...Validator) error {
	if len(validators) == 0 {
		validators = DefaultValidators()
	}
	for _, v := range validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}

package problemgen

// Operation is one of the four arithmetic operations a problem exercises.
type Operation string

const (
	Addition       Operation = "addition"
	Subtraction    Operation = "subtraction"
	Multiplication Operation = "multiplication"
	Division       Operation = "division"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{Addition, Subtraction, Multiplication, Division}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case Addition, Subtraction, Multiplication, Division:
		return true
	}
	return false
}

// Symbol returns the operator shown in question text.
func (op Operation) Symbol() string {
	switch op {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	case Multiplication:
		return "×"
	case Division:
		return "÷"
	}
	return "?"
}

// idPrefix is the short prefix used for generated problem IDs.
func (op Operation) idPrefix() string {
	switch op {
	case Addition:
		return "add"
	case Subtraction:
		return "sub"
	case Multiplication:
		return "mult"
	case Division:
		return "div"
	}
	return "prob"
}

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ProblemConfig asks for Count problems of one operation at one difficulty tier.
type ProblemConfig struct {
	Operation  Operation
	Difficulty int
	Count      int
}

// Problem is a single generated arithmetic problem.
type Problem struct {
	// ID is unique within the batch it was generated in.
	ID string

	// Question is displayed to the learner, e.g. "7 + 5 = ?".
	Question string

	// CorrectAnswer is always the exact result of the operands in Question.
	CorrectAnswer int

	Operation  Operation
	Difficulty int

	// Hint nudges the learner toward the answer without giving it away.
	Hint string

	// Explanation is the worked result, e.g. "7 + 5 = 12".
	Explanation string
}

// Option is one of the four answer choices offered for a problem.
type Option struct {
	ID   string
	Text string
}

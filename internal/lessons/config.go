package lessons

import "github.com/abhisek/mathapp/internal/problemgen"

// DefaultKey is the lesson assembled for unknown keys.
const DefaultKey = "basic-arithmetic"

// Definition describes how to assemble one lesson.
type Definition struct {
	Key         string
	Title       string
	Description string
	Configs     []problemgen.ProblemConfig
}

// TotalProblems is the number of problems the definition assembles.
func (d Definition) TotalProblems() int {
	n := 0
	for _, c := range d.Configs {
		n += c.Count
	}
	return n
}

// registry is in display order.
var registry = []Definition{
	{
		Key:         "basic-arithmetic",
		Title:       "Basic Arithmetic",
		Description: "Master addition and subtraction with single-digit numbers",
		Configs: []problemgen.ProblemConfig{
			{Operation: problemgen.Addition, Difficulty: 1, Count: 5},
			{Operation: problemgen.Subtraction, Difficulty: 1, Count: 5},
		},
	},
	{
		Key:         "multiplication-mastery",
		Title:       "Multiplication Mastery",
		Description: "Learn multiplication tables from 1 to 12",
		Configs: []problemgen.ProblemConfig{
			{Operation: problemgen.Multiplication, Difficulty: 2, Count: 10},
		},
	},
	{
		Key:         "division-basics",
		Title:       "Division Basics",
		Description: "Introduction to division concepts",
		Configs: []problemgen.ProblemConfig{
			{Operation: problemgen.Division, Difficulty: 1, Count: 8},
		},
	},
	{
		Key:         "mixed-practice",
		Title:       "Mixed Practice",
		Description: "Practice all four operations together",
		Configs: []problemgen.ProblemConfig{
			{Operation: problemgen.Addition, Difficulty: 2, Count: 3},
			{Operation: problemgen.Subtraction, Difficulty: 2, Count: 3},
			{Operation: problemgen.Multiplication, Difficulty: 1, Count: 2},
			{Operation: problemgen.Division, Difficulty: 1, Count: 2},
		},
	},
}

// Definitions returns every registered lesson definition in display order.
func Definitions() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the definition for key and whether it was registered.
// Unknown keys resolve to DefaultKey.
func Lookup(key string) (Definition, bool) {
	for _, d := range registry {
		if d.Key == key {
			return d, true
		}
	}
	for _, d := range registry {
		if d.Key == DefaultKey {
			return d, false
		}
	}
	panic("lessons: default definition missing")
}

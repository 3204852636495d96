package lessons

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/mathapp/internal/problemgen"
)

// Assembler builds lessons from the registry. It owns its random source so
// callers can seed it; the mutex makes it safe to share.
type Assembler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssembler creates an Assembler drawing from rng.
func NewAssembler(rng *rand.Rand) *Assembler {
	return &Assembler{rng: rng}
}

// Assemble builds a fresh lesson for key. Unknown keys fall back to the
// default lesson. Problems are shuffled before numbering and options are
// built after the shuffle, so Order is always 1..N in display order.
func (a *Assembler) Assemble(key string) Lesson {
	def, _ := Lookup(key)

	a.mu.Lock()
	defer a.mu.Unlock()

	generated := problemgen.GenerateMixed(a.rng, def.Configs)

	problems := make([]Problem, len(generated))
	for i, g := range generated {
		answer := g.CorrectAnswer
		problems[i] = Problem{
			ID:            g.ID,
			Question:      g.Question,
			RewardXP:      DefaultRewardXP,
			Order:         i + 1,
			Options:       problemgen.BuildOptions(a.rng, g.ID, g.CorrectAnswer),
			CorrectAnswer: &answer,
		}
	}

	return Lesson{
		ID:            def.Key,
		Title:         def.Title,
		Description:   def.Description,
		Problems:      problems,
		TotalProblems: len(problems),
		PassingScore:  PassingScore,
	}
}

package cmd

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/problemgen"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print an offline-assembled lesson with answers (no database)",
	Long: `Assemble a lesson locally and print every problem with its options.

This is a stateless developer tool. No server, no database. Use --seed to
reproduce a lesson exactly.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("lesson", lessons.DefaultKey, "Lesson key")
	previewCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("lesson")
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	if _, ok := lessons.Lookup(key); !ok {
		fmt.Printf("Unknown lesson %q, using %s.\n", key, lessons.DefaultKey)
	}

	lesson := lessons.NewAssembler(rand.New(rand.NewPCG(seed, seed>>1))).Assemble(key)

	fmt.Printf("%s: %s\n", lesson.Title, lesson.Description)
	fmt.Printf("%d problems, pass at %d%%, seed %d\n\n", lesson.TotalProblems, lesson.PassingScore, seed)

	labels := "ABCD"
	for _, p := range lesson.Problems {
		fmt.Printf("── Problem %d ──\n", p.Order)
		fmt.Println(p.Question)
		answer := ""
		if p.CorrectAnswer != nil {
			answer = strconv.Itoa(*p.CorrectAnswer)
		}
		for i, o := range p.Options {
			mark := " "
			if answer != "" && problemgen.AnswerMatches(o.Text, *p.CorrectAnswer) {
				mark = "*"
			}
			fmt.Printf(" %s %c) %s\n", mark, labels[i], o.Text)
		}
		fmt.Printf("Answer: %s\n\n", answer)
	}

	fmt.Println("Lessons:")
	for _, d := range lessons.Definitions() {
		fmt.Printf("  %-24s %d problems\n", d.Key, d.TotalProblems())
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathapp/internal/learner"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for the saved login",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := clientLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := newLearner(newClient(cfg), st, log)
		u, err := svc.Restore(cmd.Context())
		if err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		if u == nil {
			fmt.Println("Not signed in; showing stats for a guest.")
		} else {
			fmt.Printf("Learner: %s <%s>\n", u.Name, u.Email)
		}

		view := svc.Dashboard(cmd.Context())
		if view.Source == learner.SourceMock {
			fmt.Println("Server unavailable; showing sample data.")
		}

		s := view.Stats
		fmt.Printf("\nLessons: %d   Completed: %d   Overall: %d%%\n\n",
			s.LessonsAvailable, s.LessonsCompleted, s.OverallProgress)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LESSON\tDIFFICULTY\tPROGRESS\tEXERCISES\tBEST\tXP")
		xp := 0
		for _, l := range view.Lessons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d%%\t%d\n",
				l.Title, l.Difficulty, l.Progress, l.CompletedExercises, l.TotalExercises, l.Score, l.ExpEarned)
			xp += l.ExpEarned
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nTotal XP: %d\n", xp)
		return nil
	},
}

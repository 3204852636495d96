package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear lesson progress and submissions",
	Long: `Clear lesson progress and submissions from the local database.

Without --user every learner is reset. The lesson catalog and accounts are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		counts, err := st.Reset(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}

		who := "all learners"
		if userID != "" {
			who = userID
		}
		fmt.Printf("Reset %s: %d progress rows, %d submissions removed.\n", who, counts.Progress, counts.Submissions)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("user", "", "Only reset this user ID")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Engine.SelfCheck()
		r := a.Engine.Snapshot()

		fmt.Printf("Beantwortet:  %d\n", len(r.Attempted))
		fmt.Printf("Richtig:      %d\n", r.Correct)
		fmt.Printf("Falsch:       %d\n", r.Wrong)
		fmt.Printf("Gelernt:      %d\n", len(r.LearnedQuestions))
		fmt.Printf("Markiert:     %d\n", len(r.FlaggedQuestions))
		fmt.Printf("Sitzungen:    %d\n", r.TotalSessions)
		return nil
	},
}

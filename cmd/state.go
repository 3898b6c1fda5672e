package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state [key]",
	Short: "Show or switch the selected Bundesland",
	Long:  "Switching the state resets the answer state of the shared question ids 301-310.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			current := a.SelectedState.Read()
			if current == "" {
				fmt.Println("Kein Bundesland ausgewählt.")
			} else {
				fmt.Println(current)
			}
			return nil
		}

		a.SelectState(args[0])
		fmt.Printf("Bundesland: %s\n", args[0])
		return nil
	},
}

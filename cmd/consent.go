package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/app"
)

var consentCmd = &cobra.Command{
	Use:   "consent [none|necessary|all]",
	Short: "Show or set the storage consent level",
	Long:  "Without at least \"necessary\" consent nothing is persisted; progress lives only in memory for the current run.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			fmt.Println(a.Consent.Read())
			return nil
		}

		level := args[0]
		switch level {
		case app.ConsentNone, app.ConsentNecessary, app.ConsentAll:
		default:
			return fmt.Errorf("unknown consent level %q", level)
		}

		a.Consent.Write(level)
		fmt.Printf("Consent: %s\n", level)
		return nil
	},
}

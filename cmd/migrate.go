package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Report the startup migration pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.Migration
		switch {
		case res.Skipped:
			fmt.Println("Migration bereits abgeschlossen, nichts zu tun.")
		case res.Changed():
			fmt.Printf("Migration abgeschlossen: %d Einträge kopiert, Statistik repariert: %v\n",
				res.KeysCopied, res.StatsRepaired)
		default:
			fmt.Println("Migration abgeschlossen, keine Änderungen nötig.")
		}
		return nil
	},
}

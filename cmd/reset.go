package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/pool"
	"github.com/lidapp/lid/internal/stats"
	"github.com/lidapp/lid/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		stateOnly, _ := cmd.Flags().GetBool("state")
		if stateOnly {
			a.Engine.ResetRegionProgress(pool.RegionIDStart, pool.RegionIDEnd)
			fmt.Println("Fortschritt der Bundesland-Fragen zurückgesetzt.")
			return nil
		}

		a.Stats.Write(stats.NewRecord())
		a.Adapter.Remove(storage.KeyStats)
		fmt.Println("Gesamter Fortschritt zurückgesetzt.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("state", false, "Reset only the state question range (301-310)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lid", app.Version)
	},
}

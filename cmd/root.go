package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/app"
	"github.com/lidapp/lid/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "lid",
	Short: "Trainer for the Leben in Deutschland test",
	Long:  "lid — practice the Einbürgerungstest: 33-question sessions, progress tracking, AI explanations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LID_DB env var)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(consentCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openApp resolves configuration and builds the composition root.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := app.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := storage.EnsureDir(p); err != nil {
			return nil, err
		}
		cfg.DBPath = p
		cfg.JarPath = filepath.Join(filepath.Dir(p), "jar.json")
	}

	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return app.Open(cfg, log)
}

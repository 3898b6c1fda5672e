package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/explain"
	"github.com/lidapp/lid/internal/llm"
	"github.com/lidapp/lid/internal/pool"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Check the configured LLM provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			} else {
				return err
			}
		}

		provider, err := llm.NewProvider(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}

		fmt.Printf("Provider: %s (%s)\n", cfg.Provider, provider.ModelID())

		// Round-trip with a demo question.
		svc := explain.NewService(provider, cfg.Timeout)
		q := pool.DemoQuestions()[0]
		text, err := svc.Explain(cmd.Context(), q, explain.NoAnswer, "Deutsch")
		if err != nil {
			return fmt.Errorf("explanation check failed: %w", err)
		}
		fmt.Println(text)
		return nil
	},
}

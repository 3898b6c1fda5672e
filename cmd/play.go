package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lidapp/lid/internal/explain"
	"github.com/lidapp/lid/internal/llm"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		general, region := a.LoadPools(ctx)
		s := a.StartSession(general, region)

		// Explanations are best-effort: without a configured provider
		// the quiz just runs without them.
		var explainer *explain.Service
		if cfg, ok := llm.DiscoverConfig(); ok {
			if provider, perr := llm.NewProvider(ctx, cfg, nil); perr == nil {
				explainer = explain.NewService(provider, cfg.Timeout)
			}
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			q, ok := s.Current()
			if !ok {
				break
			}
			if s.Completed() {
				fmt.Println("\nZeit abgelaufen!")
				break
			}

			answered, _ := s.Answered()
			fmt.Printf("\nFrage %d/%d: %s\n", answered+1, len(s.Questions), q.Question)
			for i, opt := range q.Options {
				fmt.Printf("  %c) %s\n", 'A'+i, opt)
			}

			chosen, quit := readChoice(reader)
			if quit {
				s.Complete()
				break
			}

			correct, _ := s.Answer(chosen)
			if correct {
				fmt.Println("Richtig!")
				continue
			}

			fmt.Printf("Falsch. Richtige Antwort: %c) %s\n", 'A'+q.AnswerIndex, q.Options[q.AnswerIndex])
			if explainer != nil {
				if text, eerr := explainer.Explain(ctx, q, chosen, ""); eerr == nil {
					fmt.Println(text)
				}
			}
		}

		s.Complete()
		answered, correct := s.Answered()
		fmt.Printf("\nErgebnis: %d von %d richtig.\n", correct, answered)
		return nil
	},
}

// readChoice reads an answer A-D (case-insensitive). q quits the session.
func readChoice(r *bufio.Reader) (chosen int, quit bool) {
	for {
		fmt.Print("Antwort (A-D, q zum Beenden): ")
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, true
		}
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "Q" {
			return 0, true
		}
		if len(line) == 1 && line[0] >= 'A' && line[0] <= 'D' {
			return int(line[0] - 'A'), false
		}
	}
}

// Package explain turns a question plus the user's answer into a short
// explanatory text via the LLM provider layer.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lidapp/lid/internal/llm"
	"github.com/lidapp/lid/internal/pool"
)

// NoAnswer marks a request for an explanation before the user answered.
const NoAnswer = -1

const systemPrompt = "Du bist ein Tutor für den Einbürgerungstest " +
	"\"Leben in Deutschland\". Erkläre kurz und verständlich, warum die " +
	"richtige Antwort stimmt. Antworte in der angegebenen Sprache."

// Service generates explanations. Errors are returned to the caller and
// never persisted; the quiz works fine without explanations.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewService creates a Service. timeout bounds a single explanation
// request including retries; zero means 30s.
func NewService(p llm.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{provider: p, timeout: timeout}
}

// Explain produces an explanation for q in the given language.
// userIndex is the option the user chose, or NoAnswer.
func (s *Service) Explain(ctx context.Context, q pool.Question, userIndex int, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    buildPrompt(q, userIndex, language),
		MaxTokens: 512,
	})
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func buildPrompt(q pool.Question, userIndex int, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Frage: %s\n\n", q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
	}
	fmt.Fprintf(&b, "\nRichtige Antwort: %c) %s\n", 'A'+q.AnswerIndex, q.Options[q.AnswerIndex])

	if userIndex != NoAnswer && userIndex != q.AnswerIndex &&
		userIndex >= 0 && userIndex < len(q.Options) {
		fmt.Fprintf(&b, "Antwort des Nutzers (falsch): %c) %s\n", 'A'+userIndex, q.Options[userIndex])
		b.WriteString("Erkläre auch, warum die Antwort des Nutzers nicht stimmt.\n")
	}

	if language == "" {
		language = "Deutsch"
	}
	fmt.Fprintf(&b, "\nSprache der Erklärung: %s", language)

	return b.String()
}

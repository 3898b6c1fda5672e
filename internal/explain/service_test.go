package explain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lidapp/lid/internal/llm"
	"github.com/lidapp/lid/internal/pool"
)

func testQuestion() pool.Question {
	return pool.Question{
		ID:          "1",
		Question:    "Wie viele Bundesländer hat Deutschland?",
		Options:     []string{"14", "15", "16", "17"},
		AnswerIndex: 2,
	}
}

func TestExplainReturnsTrimmedText(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "  Deutschland hat 16 Bundesländer.\n"},
	)
	svc := NewService(mock, 0)

	got, err := svc.Explain(context.Background(), testQuestion(), NoAnswer, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Deutschland hat 16 Bundesländer." {
		t.Errorf("Explain() = %q", got)
	}
}

func TestExplainPromptContents(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	svc := NewService(mock, 0)

	if _, err := svc.Explain(context.Background(), testQuestion(), 0, "Englisch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	req := mock.Calls[0]

	if req.System == "" {
		t.Error("system prompt missing")
	}
	for _, want := range []string{
		"Wie viele Bundesländer hat Deutschland?",
		"A) 14",
		"C) 16",
		"Richtige Antwort: C) 16",
		"Antwort des Nutzers (falsch): A) 14",
		"Sprache der Erklärung: Englisch",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
}

func TestExplainNoAnswerOmitsUserLine(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	svc := NewService(mock, 0)

	if _, err := svc.Explain(context.Background(), testQuestion(), NoAnswer, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if strings.Contains(req.Prompt, "Antwort des Nutzers") {
		t.Error("prompt mentions a user answer that was never given")
	}
	if !strings.Contains(req.Prompt, "Sprache der Erklärung: Deutsch") {
		t.Error("prompt missing the default language")
	}
}

func TestExplainCorrectAnswerOmitsUserLine(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	svc := NewService(mock, 0)

	if _, err := svc.Explain(context.Background(), testQuestion(), 2, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(mock.Calls[0].Prompt, "falsch") {
		t.Error("prompt flags a correct answer as wrong")
	}
}

func TestExplainProviderError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	svc := NewService(mock, 0)

	if _, err := svc.Explain(context.Background(), testQuestion(), NoAnswer, ""); err == nil {
		t.Fatal("expected error")
	}
}

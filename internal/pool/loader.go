package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Loader fetches question pools over HTTP, falling back to the embedded
// demo set so the app never runs with zero questions.
type Loader struct {
	client *http.Client
	log    *slog.Logger
}

// NewLoader creates a Loader. client may be nil for a default client.
func NewLoader(client *http.Client, log *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{client: client, log: log}
}

// Load fetches the general question pool from url. On any failure
// (network, status, malformed or empty body) it returns the demo set.
func (l *Loader) Load(ctx context.Context, url string) []Question {
	questions, err := l.fetch(ctx, url)
	if err != nil {
		l.log.Warn("question pool fetch failed, using demo set", "url", url, "err", err)
		return DemoQuestions()
	}

	var valid []Question
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		l.log.Warn("question pool empty after filtering, using demo set", "url", url)
		return DemoQuestions()
	}
	return valid
}

// RegionRecord is a partial question record: state pools are published
// without ids.
type RegionRecord struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Image       string   `json:"image,omitempty"`
}

// LoadRegion fetches a state pool and assigns ids 301..310 positionally,
// the same ids for every state. Returns nil on failure; a missing state
// pool just means no state questions this session.
func (l *Loader) LoadRegion(ctx context.Context, url string) []Question {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.log.Warn("region pool request failed", "url", url, "err", err)
		return nil
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.log.Warn("region pool fetch failed", "url", url, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.log.Warn("region pool fetch failed", "url", url, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		l.log.Warn("region pool read failed", "url", url, "err", err)
		return nil
	}

	var records []RegionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		l.log.Warn("region pool malformed", "url", url, "err", err)
		return nil
	}

	return AssignRegionIDs(records)
}

// AssignRegionIDs converts partial state records into questions with
// ids 301..310. Records beyond the range are dropped.
func AssignRegionIDs(records []RegionRecord) []Question {
	var out []Question
	for i, r := range records {
		id := RegionIDStart + i
		if id > RegionIDEnd {
			break
		}
		q := Question{
			ID:          strconv.Itoa(id),
			Question:    r.Question,
			Options:     r.Options,
			AnswerIndex: r.AnswerIndex,
			Image:       r.Image,
		}
		if q.Valid() {
			out = append(out, q)
		}
	}
	return out
}

func (l *Loader) fetch(ctx context.Context, url string) ([]Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(body, &questions); err != nil {
		return nil, fmt.Errorf("parse pool: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("empty pool")
	}
	return questions, nil
}

// DemoQuestions returns the embedded fallback set.
func DemoQuestions() []Question {
	return []Question{
		{
			ID:       "1",
			Question: "In Deutschland dürfen Menschen offen etwas gegen die Regierung sagen, weil ...",
			Options: []string{
				"hier Religionsfreiheit gilt.",
				"die Menschen Steuern zahlen.",
				"die Menschen das Wahlrecht haben.",
				"hier Meinungsfreiheit gilt.",
			},
			AnswerIndex: 3,
		},
		{
			ID:       "2",
			Question: "In Deutschland können Eltern bis zum 14. Lebensjahr ihres Kindes entscheiden, ob es in der Schule am ...",
			Options: []string{
				"Geschichtsunterricht teilnimmt.",
				"Religionsunterricht teilnimmt.",
				"Politikunterricht teilnimmt.",
				"Sprachunterricht teilnimmt.",
			},
			AnswerIndex: 1,
		},
	}
}

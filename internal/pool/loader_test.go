package pool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"10","question":"f1","options":["a","b","c","d"],"answerIndex":2},
		{"id":"11","question":"f2","options":["a","b","c","d"],"answerIndex":0}
	]`)

	got := NewLoader(srv.Client(), nil).Load(context.Background(), srv.URL)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "10" || got[0].AnswerIndex != 2 {
		t.Errorf("first question = %+v", got[0])
	}
}

func TestLoadFiltersInvalidQuestions(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"10","question":"ok","options":["a","b","c","d"],"answerIndex":1},
		{"id":"","question":"no id","options":["a","b","c","d"],"answerIndex":1},
		{"id":"12","question":"3 options","options":["a","b","c"],"answerIndex":1},
		{"id":"13","question":"bad index","options":["a","b","c","d"],"answerIndex":4}
	]`)

	got := NewLoader(srv.Client(), nil).Load(context.Background(), srv.URL)
	if len(got) != 1 || got[0].ID != "10" {
		t.Errorf("got %v, want only question 10", got)
	}
}

func TestLoadFallsBackToDemoSet(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not found", http.StatusNotFound, ""},
		{"malformed body", http.StatusOK, `{"not":"an array"`},
		{"empty pool", http.StatusOK, `[]`},
		{"all invalid", http.StatusOK, `[{"id":"","options":[],"answerIndex":9}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			got := NewLoader(srv.Client(), nil).Load(context.Background(), srv.URL)
			want := DemoQuestions()
			if len(got) != len(want) || got[0].ID != want[0].ID {
				t.Errorf("got %d questions, want the demo set", len(got))
			}
		})
	}
}

func TestLoadUnreachableHost(t *testing.T) {
	got := NewLoader(nil, nil).Load(context.Background(), "http://127.0.0.1:1/pool.json")
	if len(got) != len(DemoQuestions()) {
		t.Errorf("got %d questions, want the demo set", len(got))
	}
}

func TestLoadRegionAssignsIDs(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"question":"s1","options":["a","b","c","d"],"answerIndex":0},
		{"question":"s2","options":["a","b","c","d"],"answerIndex":1}
	]`)

	got := NewLoader(srv.Client(), nil).LoadRegion(context.Background(), srv.URL)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "301" || got[1].ID != "302" {
		t.Errorf("ids = %s, %s, want 301, 302", got[0].ID, got[1].ID)
	}
}

func TestLoadRegionFailureReturnsNil(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "")
	if got := NewLoader(srv.Client(), nil).LoadRegion(context.Background(), srv.URL); got != nil {
		t.Errorf("got %v, want nil on failure", got)
	}
}

func TestAssignRegionIDs(t *testing.T) {
	records := make([]RegionRecord, 12)
	for i := range records {
		records[i] = RegionRecord{
			Question:    "s",
			Options:     []string{"a", "b", "c", "d"},
			AnswerIndex: 0,
		}
	}

	got := AssignRegionIDs(records)
	if len(got) != 10 {
		t.Fatalf("len = %d, want records beyond the 301..310 range dropped", len(got))
	}
	if got[0].ID != "301" || got[9].ID != "310" {
		t.Errorf("ids = %s..%s, want 301..310", got[0].ID, got[9].ID)
	}
	for _, q := range got {
		if !IsRegionID(q.ID) {
			t.Errorf("id %s outside region range", q.ID)
		}
	}
}

func TestAssignRegionIDsDropsInvalid(t *testing.T) {
	records := []RegionRecord{
		{Question: "ok", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 3},
		{Question: "short", Options: []string{"a"}, AnswerIndex: 0},
	}

	got := AssignRegionIDs(records)
	if len(got) != 1 || got[0].ID != "301" {
		t.Errorf("got %v, want only the valid record as 301", got)
	}
}

func TestIsRegionID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"301", true},
		{"310", true},
		{"300", false},
		{"311", false},
		{"1", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRegionID(tt.id); got != tt.want {
			t.Errorf("IsRegionID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestQuestionValid(t *testing.T) {
	base := Question{ID: "1", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 0}
	if !base.Valid() {
		t.Fatal("base question invalid")
	}

	broken := base
	broken.AnswerIndex = -1
	if broken.Valid() {
		t.Error("negative answer index accepted")
	}

	broken = base
	broken.Options = broken.Options[:3]
	if broken.Valid() {
		t.Error("three-option question accepted")
	}
}

package integrity

import (
	"encoding/json"
	"testing"

	"github.com/lidapp/lid/internal/storage"
)

func memAdapter(t *testing.T) (*storage.Adapter, *storage.SessionTier) {
	t.Helper()
	tier := storage.NewSessionTier()
	return storage.NewAdapter("0.0.0-test", nil, tier), tier
}

func TestValidatePassThrough(t *testing.T) {
	a, _ := memAdapter(t)
	a.Set("k", map[string]int{"n": 1}, true)

	raw, ok := Validate(a, "k", func(json.RawMessage) bool { return true }, nil)
	if !ok {
		t.Fatal("valid record reported as absent")
	}
	var v map[string]int
	if err := json.Unmarshal(raw, &v); err != nil || v["n"] != 1 {
		t.Errorf("raw = %s, want {\"n\":1}", raw)
	}
}

func TestValidateAbsentKey(t *testing.T) {
	a, _ := memAdapter(t)
	if _, ok := Validate(a, "missing", func(json.RawMessage) bool { return true }, nil); ok {
		t.Error("absent key reported as present")
	}
}

func TestValidateWipesInvalidRecord(t *testing.T) {
	a, tier := memAdapter(t)
	a.Set("k", "garbage", true)

	if _, ok := Validate(a, "k", func(json.RawMessage) bool { return false }, nil); ok {
		t.Fatal("invalid record reported as valid")
	}
	if _, ok := tier.Get("k"); ok {
		t.Error("invalid record left in storage")
	}
}

func TestValidatePanickingPredicateWipes(t *testing.T) {
	a, tier := memAdapter(t)
	a.Set("k", []int{1, 2, 3}, true)

	pred := func(raw json.RawMessage) bool {
		var v map[string]any
		if err := json.Unmarshal(raw, &v); err != nil {
			panic(err)
		}
		return true
	}
	if _, ok := Validate(a, "k", pred, nil); ok {
		t.Fatal("panicking predicate reported as valid")
	}
	if _, ok := tier.Get("k"); ok {
		t.Error("record left in storage after predicate panic")
	}
}

func TestStatsPredicate(t *testing.T) {
	pred := StatsPredicate()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{
			"complete record",
			`{"attempted":{},"correctAnswers":{},"incorrectAnswers":{},
			  "learnedQuestions":{},"flaggedQuestions":{},
			  "correct":0,"wrong":0,"totalSessions":0}`,
			true,
		},
		{
			"populated record",
			`{"attempted":{"1":true},"correctAnswers":{"1":true},"incorrectAnswers":{"2":3},
			  "learnedQuestions":{"1":1700000000000},"flaggedQuestions":{},
			  "correct":1,"wrong":1,"totalSessions":2}`,
			true,
		},
		{"missing field", `{"attempted":{},"correct":0}`, false},
		{"wrong map value type",
			`{"attempted":{"1":"yes"},"correctAnswers":{},"incorrectAnswers":{},
			  "learnedQuestions":{},"flaggedQuestions":{},
			  "correct":0,"wrong":0,"totalSessions":0}`,
			false},
		{"answer index out of range",
			`{"attempted":{},"correctAnswers":{},"incorrectAnswers":{"2":7},
			  "learnedQuestions":{},"flaggedQuestions":{},
			  "correct":0,"wrong":0,"totalSessions":0}`,
			false},
		{"negative counter",
			`{"attempted":{},"correctAnswers":{},"incorrectAnswers":{},
			  "learnedQuestions":{},"flaggedQuestions":{},
			  "correct":-1,"wrong":0,"totalSessions":0}`,
			false},
		{"not an object", `[1,2]`, false},
		{"not json", `{{`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pred(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("StatsPredicate()(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestScalarPredicates(t *testing.T) {
	if !IsBool(json.RawMessage(`true`)) || IsBool(json.RawMessage(`"x"`)) {
		t.Error("IsBool misclassified input")
	}
	if !IsString(json.RawMessage(`"all"`)) || IsString(json.RawMessage(`3`)) {
		t.Error("IsString misclassified input")
	}
	if !IsNumber(json.RawMessage(`45`)) || IsNumber(json.RawMessage(`true`)) {
		t.Error("IsNumber misclassified input")
	}
}

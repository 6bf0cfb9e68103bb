package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/fitcoach/routinecoach/internal/llm"
)

func TestRepairValidJSONPassesThrough(t *testing.T) {
	raw := `{"a":1,"b":[1,2,3]}`
	got, err := llm.Repair(raw)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if got != raw {
		t.Errorf("Repair() = %q, want unchanged %q", got, raw)
	}
}

func TestRepairClosesDanglingBrackets(t *testing.T) {
	raw := `{"a":1,"b":{"c":2`
	got, err := llm.Repair(raw)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if !json.Valid([]byte(got)) {
		t.Fatalf("Repair() produced invalid JSON: %q", got)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("unmarshal repaired: %v", err)
	}
	if parsed["a"] != float64(1) {
		t.Errorf("parsed[a] = %v, want 1", parsed["a"])
	}
}

func TestRepairTruncatedMidStringDropsIncompleteDay(t *testing.T) {
	raw := `{"daily_details":[{"day":1,"focus":"push","exercises":[]},{"day":2,"exercises":["incompl`
	got, err := llm.Repair(raw)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}

	var parsed struct {
		DailyDetails []map[string]interface{} `json:"daily_details"`
	}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("unmarshal repaired: %v", err)
	}

	if len(parsed.DailyDetails) == 0 {
		t.Fatal("expected at least the first day to survive repair")
	}
	if parsed.DailyDetails[0]["day"] != float64(1) {
		t.Errorf("DailyDetails[0][day] = %v, want 1", parsed.DailyDetails[0]["day"])
	}
	if got, want := parsed.DailyDetails[0]["focus"], "push"; got != want {
		t.Errorf("DailyDetails[0][focus] = %v, want %v", got, want)
	}
	// No fabricated second day with content: either absent or present
	// with no exercises.
	if len(parsed.DailyDetails) > 1 {
		exercises, _ := parsed.DailyDetails[1]["exercises"].([]interface{})
		if len(exercises) != 0 {
			t.Errorf("DailyDetails[1][exercises] = %v, want empty or absent", exercises)
		}
	}
}

func TestRepairFailsOnUnrecoverableGarbage(t *testing.T) {
	if _, err := llm.Repair("not json at all"); err == nil {
		t.Fatal("expected error for unrecoverable input")
	}
}

func TestRepairNoFabricatedKeys(t *testing.T) {
	raw := `{"x":1,"y":2,"z":"trunc`
	got, err := llm.Repair(raw)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k := range parsed {
		if k != "x" && k != "y" {
			t.Errorf("unexpected fabricated key %q in %v", k, parsed)
		}
	}
}

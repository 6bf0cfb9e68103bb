package routine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/routine"
	"github.com/fitcoach/routinecoach/internal/testhelpers"
)

type fakeCompleter struct {
	response string
}

func (f fakeCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return f.response, nil
}

type fakeGateway struct{}

func (g *fakeGateway) Search(_ context.Context, query string, _ int, filters model.Filters) ([]catalogindex.Candidate, error) {
	var all []catalogindex.Candidate
	switch {
	case strings.Contains(query, "chest"):
		all = []catalogindex.Candidate{
			{Score: 0.85, Exercise: catalogindex.Exercise{ExerciseID: 1, Muscles: []string{"pectoralis major", "latissimus dorsi"}, TargetGroup: catalogindex.Common}},
			{Score: 0.60, Exercise: catalogindex.Exercise{ExerciseID: 2, Muscles: []string{"pectoralis major"}, TargetGroup: catalogindex.Common}},
			{Score: 0.99, Exercise: catalogindex.Exercise{ExerciseID: 9, Muscles: []string{"pectoralis major"}, TargetGroup: catalogindex.Adult}},
		}
	case strings.Contains(query, "back"):
		all = []catalogindex.Candidate{
			{Score: 0.92, Exercise: catalogindex.Exercise{ExerciseID: 1, Muscles: []string{"pectoralis major", "latissimus dorsi"}, TargetGroup: catalogindex.Common}},
			{Score: 0.55, Exercise: catalogindex.Exercise{ExerciseID: 3, Muscles: []string{"latissimus dorsi"}, TargetGroup: catalogindex.Common}},
		}
	default:
		return nil, nil
	}

	var survivors []catalogindex.Candidate
	for _, c := range all {
		if filters.Allows(string(c.Exercise.TargetGroup)) && !filters.Excludes(c.Exercise.FitnessFactor) {
			survivors = append(survivors, c)
		}
	}
	return survivors, nil
}

const sketchResponse = `{
	"strengths_weaknesses": "steady progress",
	"muscle_balance": {"overworked": ["chest"], "underworked": ["back"]},
	"next_target_muscles": ["back"],
	"daily_details": [
		{"day": 1, "focus": "push", "target_muscles": ["chest"], "rag_query": "chest press exercise", "estimated_duration": 40, "exercises": []},
		{"day": 2, "focus": "pull", "target_muscles": ["back"], "rag_query": "back row exercise", "estimated_duration": 40, "exercises": []}
	]
}`

func newTestOrchestrator(t *testing.T, response string) *routine.Orchestrator {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	return routine.NewOrchestrator(&fakeGateway{}, fakeCompleter{response: response}, llm.CompletionParams{Temperature: 0.2, MaxTokens: 1000}, logger)
}

func TestSynthesizeDedupByScore(t *testing.T) {
	orch := newTestOrchestrator(t, sketchResponse)

	result, err := orch.Synthesize(context.Background(), routine.Request{
		Logs: []model.LogEntry{{Date: "2025-10-08", Exercises: []model.LogExercise{{Title: "push-up", Intensity: model.IntensityHigh, ExerciseTime: 20}}}},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	seenDay := map[int]int{}
	for dayIdx, day := range result.DailyDetails {
		for _, ex := range day.Exercises {
			if other, ok := seenDay[ex.ExerciseID]; ok {
				t.Errorf("exerciseID %d appears on both day %d and day %d", ex.ExerciseID, other, dayIdx)
			}
			seenDay[ex.ExerciseID] = dayIdx
		}
	}

	dayOfID1, ok := seenDay[1]
	if !ok {
		t.Fatal("expected exerciseID 1 to survive on exactly one day")
	}
	if dayOfID1 != 1 {
		t.Errorf("exerciseID 1 scored higher on day 1 (0.92) than day 0 (0.85), want it kept on day 1, got day %d", dayOfID1)
	}
}

func TestSynthesizeRespectsTargetGroupFilter(t *testing.T) {
	youth := "youth"
	orch := newTestOrchestrator(t, sketchResponse)

	result, err := orch.Synthesize(context.Background(), routine.Request{
		Profile: model.UserProfile{TargetGroup: &youth},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	for _, day := range result.DailyDetails {
		for _, ex := range day.Exercises {
			if ex.TargetGroup != "" && ex.TargetGroup != catalogindex.Common && string(ex.TargetGroup) != youth {
				t.Errorf("exercise %d has targetGroup %q, want youth or common", ex.ExerciseID, ex.TargetGroup)
			}
		}
	}
}

func TestSynthesizePropagatesFatalSketchError(t *testing.T) {
	orch := newTestOrchestrator(t, "not json")

	_, err := orch.Synthesize(context.Background(), routine.Request{})
	if err == nil {
		t.Fatal("expected malformed sketch response to be a fatal error")
	}
}

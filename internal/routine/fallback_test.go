package routine_test

import (
	"testing"

	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/routine"
)

func TestFallbackRecommendationsCapsAtTopThree(t *testing.T) {
	m := model.WeeklyMetrics{TopMuscles: []string{"pectoralis major", "latissimus dorsi", "quadriceps", "hamstrings"}}

	got := routine.FallbackRecommendations(m)
	if len(got) != 3 {
		t.Fatalf("len(FallbackRecommendations()) = %d, want 3", len(got))
	}
	if got[0] != "rest pectoralis major" {
		t.Errorf("got[0] = %q, want %q", got[0], "rest pectoralis major")
	}
}

func TestFallbackRecommendationsEmptyMetrics(t *testing.T) {
	got := routine.FallbackRecommendations(model.WeeklyMetrics{})
	if len(got) != 0 {
		t.Errorf("expected no recommendations for empty metrics, got %v", got)
	}
}

package routine

import "github.com/fitcoach/routinecoach/internal/model"

// fallbackTopN bounds how many overworked muscles the metrics-only
// fallback recommends resting.
const fallbackTopN = 3

// FallbackRecommendations derives a metrics-only recommendation list
// when the LLM is unavailable or returned malformed output: rest the
// most heavily worked muscles. Used by the HTTP layer to populate
// fallback_recommendations on ChatUnavailable/ResponseMalformed
// errors, per §7.
func FallbackRecommendations(m model.WeeklyMetrics) []string {
	top := m.TopMuscles
	if len(top) > fallbackTopN {
		top = top[:fallbackTopN]
	}
	out := make([]string, len(top))
	for i, muscle := range top {
		out[i] = "rest " + muscle
	}
	return out
}

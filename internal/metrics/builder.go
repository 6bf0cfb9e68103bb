// Package metrics builds WeeklyMetrics from raw journal logs. Build is
// a pure function: no I/O, no shared state.
package metrics

import (
	"sort"
	"strings"

	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

const weekWindowDays = 7

// topK bounds the length of each descending-count list in the result.
const topK = 5

// Build aggregates logs into counts, distributions, and an equipment
// profile. The window is always treated as 7 days regardless of how
// many LogEntry items are supplied (see SPEC_FULL.md's Open Question
// decision in DESIGN.md).
func Build(logs []model.LogEntry) model.WeeklyMetrics {
	intensityCounts := map[string]int{}
	bodyPartCounts := map[string]int{}
	muscleCounts := map[string]int{}
	equipmentCounts := map[string]int{}
	equipmentCategoryCounts := map[string]int{}

	activeDays := 0
	totalMinutes := 0

	for _, day := range logs {
		if len(day.Exercises) > 0 {
			activeDays++
		}
		for _, ex := range day.Exercises {
			if ex.Intensity != "" {
				intensityCounts[string(ex.Intensity)]++
			}
			totalMinutes += ex.ExerciseTime

			bodyPartCounts[bodyPart(ex)]++

			for _, m := range vocabulary.Normalize(ex.Muscles) {
				muscleCounts[m]++
			}

			if ex.EquipmentTool != "" {
				equipmentCounts[ex.EquipmentTool]++
				equipmentCategoryCounts[string(vocabulary.CategorizeEquipment(ex.EquipmentTool))]++
			}
		}
	}

	restDays := weekWindowDays - activeDays
	if restDays < 0 {
		restDays = 0
	}

	return model.WeeklyMetrics{
		ActiveDays:             activeDays,
		RestDays:               restDays,
		TotalMinutes:           totalMinutes,
		IntensityCounts:        intensityCounts,
		BodyPartCounts:         bodyPartCounts,
		MuscleCounts:           muscleCounts,
		TopMuscles:             topByCount(muscleCounts, topK),
		TopEquipment:           topByCount(equipmentCounts, topK),
		TopEquipmentCategories: topByCount(equipmentCategoryCounts, topK),
	}
}

// bodyPart derives upper/lower/other from the exercise's explicit
// body part if present, else infers it from title/memo keywords.
func bodyPart(ex model.LogExercise) string {
	if ex.BodyPart != "" {
		return ex.BodyPart
	}

	text := strings.ToLower(ex.Title + " " + ex.ExerciseMemo)
	upperKeywords := []string{"push-up", "pushup", "bench", "curl", "press", "row", "pull-up", "pullup", "shoulder", "chest", "arm", "lat"}
	lowerKeywords := []string{"squat", "lunge", "deadlift", "calf", "leg", "glute", "hip", "thigh"}

	for _, kw := range upperKeywords {
		if strings.Contains(text, kw) {
			return "upper"
		}
	}
	for _, kw := range lowerKeywords {
		if strings.Contains(text, kw) {
			return "lower"
		}
	}
	return "other"
}

// topByCount returns the keys of counts sorted by descending count,
// breaking ties alphabetically for determinism, truncated to k.
func topByCount(counts map[string]int, k int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

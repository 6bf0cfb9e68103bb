// Package model holds the request/response data model shared across
// the routine synthesis pipeline: journal entries, the user profile,
// weekly metrics, the LLM's draft, and the final routine.
package model

import "github.com/fitcoach/routinecoach/internal/catalogindex"

// Intensity is the closed set of per-exercise intensity labels a log
// entry carries.
type Intensity string

const (
	IntensityHigh Intensity = "high"
	IntensityMid  Intensity = "mid"
	IntensityLow  Intensity = "low"
)

// LogExercise references a catalog-like exercise performed on a given
// day. It is not required to match the catalog exactly.
type LogExercise struct {
	Title        string    `json:"title"`
	BodyPart     string    `json:"body_part,omitempty"`
	Muscles      []string  `json:"muscles,omitempty"`
	EquipmentTool string   `json:"equipment_tool,omitempty"`
	Intensity    Intensity `json:"intensity"`
	ExerciseTime int       `json:"exercise_time_minutes"`
	ExerciseMemo string    `json:"exercise_memo,omitempty"`
}

// LogEntry is one calendar day's journal: an optional memo plus an
// ordered list of exercises performed that day.
type LogEntry struct {
	Date      string        `json:"date"`
	Memo      string        `json:"memo,omitempty"`
	Exercises []LogExercise `json:"exercises"`
}

// UserProfile carries optional constraints on the recommended
// routine. Every field is an absent optional rather than a sentinel
// string; ProfileHygiene (see internal/routine) strips empty strings
// at the request boundary before any field is treated as present.
type UserProfile struct {
	TargetGroup          *string `json:"target_group,omitempty"`
	FitnessLevel         *string `json:"fitness_level,omitempty"`
	FitnessFactor        *string `json:"fitness_factor,omitempty"`
	PreferredEquipment   []string `json:"preferred_equipment,omitempty"`
}

// WeeklyMetrics is built by the metrics builder (C4) from raw logs.
type WeeklyMetrics struct {
	ActiveDays             int            `json:"active_days"`
	RestDays               int            `json:"rest_days"`
	TotalMinutes           int            `json:"total_minutes"`
	IntensityCounts        map[string]int `json:"intensity_counts"`
	BodyPartCounts         map[string]int `json:"body_part_counts"`
	MuscleCounts           map[string]int `json:"muscle_counts"`
	TopMuscles             []string       `json:"top_muscles"`
	TopEquipment           []string       `json:"top_equipment"`
	TopEquipmentCategories []string       `json:"top_equipment_categories"`
}

// DayDetail is one day of a routine draft or final routine.
type DayDetail struct {
	Day                int                      `json:"day"`
	Focus              string                   `json:"focus"`
	TargetMuscles      []string                 `json:"target_muscles"`
	RAGQuery           string                   `json:"rag_query"`
	EstimatedDuration  int                      `json:"estimated_duration"`
	Exercises          []catalogindex.Exercise  `json:"exercises"`
}

// MuscleBalance summarizes over/under-worked muscles derived from the
// weekly metrics and the LLM's narrative analysis.
type MuscleBalance struct {
	Overworked  []string `json:"overworked"`
	Underworked []string `json:"underworked"`
}

// RoutineDraft is C5's first-pass plan: narrative analysis plus
// per-day targets and search queries, with every day's exercises list
// still empty.
type RoutineDraft struct {
	StrengthsWeaknesses string        `json:"strengths_weaknesses"`
	MuscleBalance       MuscleBalance `json:"muscle_balance"`
	NextTargetMuscles   []string      `json:"next_target_muscles"`
	DailyDetails        []DayDetail   `json:"daily_details"`
}

// Routine is the final, catalog-backed result emitted by C8.
type Routine struct {
	StrengthsWeaknesses  string                `json:"strengths_weaknesses"`
	MuscleBalance        MuscleBalance         `json:"muscle_balance"`
	NextTargetMuscles    []string              `json:"next_target_muscles"`
	DailyDetails         []DayDetail           `json:"daily_details"`
	NextTargetExercises  map[string][]int      `json:"next_target_exercises"`
	RecommendedExercises []int                 `json:"recommended_exercises"`
}

// JournalAnalysis is the /analyze-journal response: a single day's
// evaluation plus next-step guidance.
type JournalAnalysis struct {
	WorkoutEvaluation   string           `json:"workout_evaluation"`
	TargetMuscles       []string         `json:"target_muscles"`
	Recommendations     []string         `json:"recommendations"`
	NextTargetMuscles   []string         `json:"next_target_muscles"`
	NextTargetExercises map[string][]int `json:"next_target_exercises"`
	Encouragement       string           `json:"encouragement"`
}

// Filters carries the metadata pre/post-filters the search gateway
// (C3) applies to candidates.
type Filters struct {
	TargetGroupAllowed     map[string]bool
	FitnessFactorExcluded  map[string]bool
}

// Allows reports whether targetGroup passes the filter. Absent
// metadata counts as "common"; an empty allowed set means no
// restriction.
func (f Filters) Allows(targetGroup string) bool {
	if len(f.TargetGroupAllowed) == 0 {
		return true
	}
	if targetGroup == "" {
		targetGroup = "common"
	}
	if f.TargetGroupAllowed["common"] && targetGroup == "common" {
		return true
	}
	return f.TargetGroupAllowed[targetGroup]
}

// Excludes reports whether fitnessFactor is excluded by the filter.
func (f Filters) Excludes(fitnessFactor string) bool {
	return f.FitnessFactorExcluded[fitnessFactor]
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

// Per-field textual length budgets, enforced in the prompt text rather
// than by truncating the model's response after the fact.
const (
	maxNarrativeWords = 120
	minRoutineDays    = 3
	minExercisesPerDay = 3
)

var vocabularyList = strings.Join(vocabulary.MuscleLabels, ", ")

func vocabularyRules() string {
	return fmt.Sprintf(
		"Use ONLY muscle names from this exact list — never invent or translate a name outside it: %s",
		vocabularyList)
}

// logAnalysisPrompt builds the log-analysis template for a single
// journal day plus optional profile, used by the /analyze-journal
// endpoint.
func logAnalysisPrompt(day model.LogEntry, profile model.UserProfile) (system, user string) {
	system = "You are a fitness analyst. Respond with a single valid JSON object and nothing else. " +
		vocabularyRules()

	entries := describeExercises(day.Exercises)
	user = fmt.Sprintf(`Analyze this single workout day and respond with exactly this JSON shape:
{
  "workout_evaluation": "one paragraph, max %d words",
  "target_muscles": ["muscle1", "muscle2"],
  "recommendations": ["short recommendation 1", "short recommendation 2"],
  "next_target_muscles": ["muscle1", "muscle2"],
  "encouragement": "one short encouraging sentence"
}

Day: %s
Memo: %s
Exercises:
%s

%s`, maxNarrativeWords, day.Date, day.Memo, entries, profileText(profile))

	return system, user
}

// weeklyPatternPrompt builds the weekly-pattern template that Sketch
// uses; the orchestrator calls Sketch when a request has zero Days
// (the /weekly-pattern path). The model is told to emit an empty exercises array per day; the
// orchestrator fills it in from the catalog.
func weeklyPatternPrompt(m model.WeeklyMetrics, profile model.UserProfile) (system, user string) {
	system = "You are a fitness coach analyzing a week of training data. Respond with a single valid " +
		"JSON object and nothing else. " + vocabularyRules() + " " +
		fmt.Sprintf("The plan must have at least %d days with at least %d target muscles named per day, but every day's \"exercises\" field must be an empty array — a downstream system fills it in.", minRoutineDays, minExercisesPerDay)

	user = fmt.Sprintf(`Weekly metrics:
active_days=%d rest_days=%d total_minutes=%d
top_muscles=%v
top_equipment=%v
top_equipment_categories=%v

%s

Respond with exactly this JSON shape:
{
  "strengths_weaknesses": "one paragraph, max %d words",
  "muscle_balance": {"overworked": ["muscle1"], "underworked": ["muscle1"]},
  "next_target_muscles": ["muscle1", "muscle2", "muscle3"],
  "daily_details": [
    {"day": 1, "focus": "short label", "target_muscles": ["muscle1"], "rag_query": "natural language search query", "estimated_duration": 45, "exercises": []}
  ]
}`, m.ActiveDays, m.RestDays, m.TotalMinutes, m.TopMuscles, m.TopEquipment, m.TopEquipmentCategories,
		profileText(profile), maxNarrativeWords)

	return system, user
}

// routineRecommendationPrompt builds the routine-recommendation
// template: like weekly-pattern, but framed around an explicit
// days/frequency request from the /recommend-routine endpoint.
func routineRecommendationPrompt(m model.WeeklyMetrics, profile model.UserProfile, days, frequency int) (system, user string) {
	system = "You are a fitness coach designing a multi-day training plan. Respond with a single valid " +
		"JSON object and nothing else. " + vocabularyRules()

	user = fmt.Sprintf(`The user wants a %d-day plan at %d sessions per week. Weekly metrics:
active_days=%d rest_days=%d total_minutes=%d top_muscles=%v top_equipment=%v

%s

Respond with exactly this JSON shape:
{
  "strengths_weaknesses": "one paragraph, max %d words",
  "muscle_balance": {"overworked": ["muscle1"], "underworked": ["muscle1"]},
  "next_target_muscles": ["muscle1", "muscle2"],
  "daily_details": [
    {"day": 1, "focus": "short label", "target_muscles": ["muscle1"], "rag_query": "natural language search query", "estimated_duration": 45, "exercises": []}
  ]
}
Every day's "exercises" field must be an empty array — a downstream system fills it in from the catalog.`,
		days, frequency, m.ActiveDays, m.RestDays, m.TotalMinutes, m.TopMuscles, m.TopEquipment,
		profileText(profile), maxNarrativeWords)

	return system, user
}

func describeExercises(exercises []model.LogExercise) string {
	var b strings.Builder
	for _, ex := range exercises {
		fmt.Fprintf(&b, "- %s (%s, %d min, tool=%s, memo=%s)\n",
			ex.Title, ex.Intensity, ex.ExerciseTime, ex.EquipmentTool, ex.ExerciseMemo)
	}
	if b.Len() == 0 {
		return "(no exercises logged)"
	}
	return b.String()
}

func profileText(p model.UserProfile) string {
	var parts []string
	if p.TargetGroup != nil {
		parts = append(parts, "target_group="+*p.TargetGroup)
	}
	if p.FitnessLevel != nil {
		parts = append(parts, "fitness_level="+*p.FitnessLevel)
	}
	if p.FitnessFactor != nil {
		parts = append(parts, "fitness_factor="+*p.FitnessFactor)
	}
	if len(p.PreferredEquipment) > 0 {
		parts = append(parts, "preferred_equipment="+strings.Join(p.PreferredEquipment, ","))
	}
	if len(parts) == 0 {
		return "Profile: no constraints specified."
	}
	return "Profile: " + strings.Join(parts, ", ")
}

// Analyze runs the log-analysis template against a single journal day
// and parses (repairing truncation if needed) the result into a
// JournalAnalysis, validating every muscle-bearing field against the
// canonical vocabulary.
func Analyze(ctx context.Context, completer ChatCompleter, cfg CompletionParams, day model.LogEntry, profile model.UserProfile) (model.JournalAnalysis, error) {
	system, user := logAnalysisPrompt(day, profile)

	content, err := completer.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	})
	if err != nil {
		return model.JournalAnalysis{}, err
	}

	repaired, err := Repair(content)
	if err != nil {
		return model.JournalAnalysis{}, err
	}

	var analysis model.JournalAnalysis
	if err := json.Unmarshal([]byte(repaired), &analysis); err != nil {
		return model.JournalAnalysis{}, errors.Wrap(ErrResponseMalformed, "unmarshal journal analysis")
	}

	analysis.TargetMuscles = vocabulary.Normalize(analysis.TargetMuscles)
	analysis.NextTargetMuscles = vocabulary.Normalize(analysis.NextTargetMuscles)

	return analysis, nil
}

// CompletionParams carries the sampling parameters sourced from
// configuration (ROUTINECOACH_TEMPERATURE, ROUTINECOACH_MAX_TOKENS).
type CompletionParams struct {
	Temperature float64
	MaxTokens   int64
}

// Sketch runs the weekly-pattern template — used by the orchestrator
// when a request has zero Days; requests with Days set go through
// SketchRoutine instead — and parses the result into a RoutineDraft, with
// every muscle-bearing field normalized against the vocabulary.
func Sketch(ctx context.Context, completer ChatCompleter, cfg CompletionParams, m model.WeeklyMetrics, profile model.UserProfile) (model.RoutineDraft, error) {
	system, user := weeklyPatternPrompt(m, profile)
	return sketchFromPrompt(ctx, completer, cfg, system, user)
}

// SketchRoutine runs the routine-recommendation template for the
// /recommend-routine endpoint's explicit days/frequency request.
func SketchRoutine(ctx context.Context, completer ChatCompleter, cfg CompletionParams, m model.WeeklyMetrics, profile model.UserProfile, days, frequency int) (model.RoutineDraft, error) {
	system, user := routineRecommendationPrompt(m, profile, days, frequency)
	return sketchFromPrompt(ctx, completer, cfg, system, user)
}

func sketchFromPrompt(ctx context.Context, completer ChatCompleter, cfg CompletionParams, system, user string) (model.RoutineDraft, error) {
	content, err := completer.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	})
	if err != nil {
		return model.RoutineDraft{}, err
	}

	repaired, err := Repair(content)
	if err != nil {
		return model.RoutineDraft{}, err
	}

	var draft model.RoutineDraft
	if err := json.Unmarshal([]byte(repaired), &draft); err != nil {
		return model.RoutineDraft{}, errors.Wrap(ErrResponseMalformed, "unmarshal routine draft")
	}

	draft.NextTargetMuscles = vocabulary.Normalize(draft.NextTargetMuscles)
	draft.MuscleBalance.Overworked = vocabulary.Normalize(draft.MuscleBalance.Overworked)
	draft.MuscleBalance.Underworked = vocabulary.Normalize(draft.MuscleBalance.Underworked)
	for i := range draft.DailyDetails {
		draft.DailyDetails[i].TargetMuscles = vocabulary.Normalize(draft.DailyDetails[i].TargetMuscles)
	}

	return draft, nil
}

// Package httpapi exposes the three JSON endpoints described in §6:
// /analyze-journal, /recommend-routine, and /weekly-pattern, each backed
// by the same routine.Orchestrator and llm.ChatCompleter.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/metrics"
	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/routine"
)

// Application wires the handlers to their dependencies, following the
// grounding corpus's single-struct-of-dependencies composition pattern.
type Application struct {
	Orchestrator     *routine.Orchestrator
	Completer        llm.ChatCompleter
	CompletionParams llm.CompletionParams
	Logger           *slog.Logger
}

// Routes registers the three endpoints on mux.
func (app *Application) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze-journal", app.analyzeJournal)
	mux.HandleFunc("POST /recommend-routine", app.recommendRoutine)
	mux.HandleFunc("POST /weekly-pattern", app.weeklyPattern)
}

const maxRequestBody = 1 << 20 // 1 MiB: journal payloads are small JSON, not file uploads.

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(dst); err != nil {
		return errors.Wrap(errInputInvalid, "decode request body: "+err.Error())
	}
	return nil
}

type analyzeJournalRequest struct {
	Log     model.LogEntry    `json:"log"`
	Profile model.UserProfile `json:"profile"`
}

// analyzeJournal handles POST /analyze-journal: a single day's evaluation
// plus next-step guidance, with next_target_exercises resolved by the same
// search gateway the orchestrator uses.
func (app *Application) analyzeJournal(w http.ResponseWriter, r *http.Request) {
	var req analyzeJournalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, app.Logger, err)
		return
	}
	if req.Log.Date == "" {
		writeError(w, r, app.Logger, errors.Wrap(errInputInvalid, "log.date is required"))
		return
	}

	profile := routine.ProfileHygiene(req.Profile)
	analysis, err := llm.Analyze(r.Context(), app.Completer, app.CompletionParams, req.Log, profile)
	if err != nil {
		writeError(w, r, app.Logger, err)
		return
	}

	filters := routine.DeriveFilters(profile)
	analysis.NextTargetExercises = app.Orchestrator.NextTargetExercises(r.Context(), analysis.NextTargetMuscles, filters)

	writeJSON(w, http.StatusOK, analysis)
}

type recommendRoutineRequest struct {
	Logs      []model.LogEntry  `json:"logs"`
	Days      int               `json:"days"`
	Frequency int               `json:"frequency"`
	Profile   model.UserProfile `json:"profile"`
}

// recommendRoutine handles POST /recommend-routine: a caller-specified
// days/frequency routine built end-to-end by the orchestrator.
func (app *Application) recommendRoutine(w http.ResponseWriter, r *http.Request) {
	var req recommendRoutineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, app.Logger, err)
		return
	}
	if req.Days < 1 || req.Days > 14 {
		writeError(w, r, app.Logger, errors.Wrap(errInputInvalid, "days must be between 1 and 14"))
		return
	}
	if req.Frequency < 1 || req.Frequency > 7 {
		writeError(w, r, app.Logger, errors.Wrap(errInputInvalid, "frequency must be between 1 and 7"))
		return
	}

	routineResult, err := app.Orchestrator.Synthesize(r.Context(), routine.Request{
		Logs:      req.Logs,
		Profile:   req.Profile,
		Days:      req.Days,
		Frequency: req.Frequency,
	})
	if err != nil {
		app.writeFallback(w, r, req.Logs, err)
		return
	}

	writeJSON(w, http.StatusOK, routineResult)
}

type weeklyPatternRequest struct {
	Logs    []model.LogEntry  `json:"logs"`
	Profile model.UserProfile `json:"profile"`
}

type weeklyPatternResponse struct {
	Result               model.Routine       `json:"result"`
	MetricsSummary       model.WeeklyMetrics `json:"metrics_summary"`
	RecommendedExercises []int               `json:"recommended_exercises"`
	MuscleAnalysis       muscleAnalysis      `json:"muscle_analysis"`
}

type muscleAnalysis struct {
	Overworked        []string `json:"overworked"`
	Underworked       []string `json:"underworked"`
	NextTargetMuscles []string `json:"next_target_muscles"`
	Focus             string   `json:"focus"`
}

// weeklyPattern handles POST /weekly-pattern: up to 7 days of logs,
// analyzed via the weekly-pattern sketch template (Days: 0 signals the
// orchestrator to use Sketch rather than SketchRoutine).
func (app *Application) weeklyPattern(w http.ResponseWriter, r *http.Request) {
	var req weeklyPatternRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, app.Logger, err)
		return
	}
	if len(req.Logs) > 7 {
		writeError(w, r, app.Logger, errors.Wrap(errInputInvalid, "at most 7 log entries are accepted"))
		return
	}

	routineResult, err := app.Orchestrator.Synthesize(r.Context(), routine.Request{
		Logs:    req.Logs,
		Profile: req.Profile,
	})
	if err != nil {
		app.writeFallback(w, r, req.Logs, err)
		return
	}

	var focus string
	if len(routineResult.DailyDetails) > 0 {
		focus = routineResult.DailyDetails[0].Focus
	}

	writeJSON(w, http.StatusOK, weeklyPatternResponse{
		Result:               routineResult,
		MetricsSummary:       metrics.Build(req.Logs),
		RecommendedExercises: routineResult.RecommendedExercises,
		MuscleAnalysis: muscleAnalysis{
			Overworked:        routineResult.MuscleBalance.Overworked,
			Underworked:       routineResult.MuscleBalance.Underworked,
			NextTargetMuscles: routineResult.NextTargetMuscles,
			Focus:             focus,
		},
	})
}

// writeFallback handles a fatal sketch failure (ChatUnavailable or
// ResponseMalformed, both fatal per §7) by falling back to the
// metrics-only recommendation rather than surfacing a bare 5xx. Only an
// input-validation error is written as an error envelope instead; every
// other failure, cancellation included, gets the fallback response.
func (app *Application) writeFallback(w http.ResponseWriter, r *http.Request, logs []model.LogEntry, err error) {
	if errors.Is(err, errInputInvalid) {
		writeError(w, r, app.Logger, err)
		return
	}

	app.Logger.LogAttrs(r.Context(), slog.LevelWarn, "synthesize failed, returning fallback recommendations",
		errors.SlogError(err))

	weekly := metrics.Build(logs)
	writeJSON(w, http.StatusOK, map[string]any{
		"fallback_recommendations": routine.FallbackRecommendations(weekly),
		"metrics_summary":          weekly,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

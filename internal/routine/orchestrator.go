// Package routine implements the routine orchestrator (C6) and the
// response assembler (C8): the pipeline that turns raw journal logs
// into a catalog-backed, multi-day training routine.
package routine

import (
	"context"
	"log/slog"
	"sort"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/metrics"
	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/queryvalidator"
	"github.com/fitcoach/routinecoach/internal/search"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
	"golang.org/x/sync/errgroup"
)

// perDay caps the number of exercises a single day keeps after
// filtering and back-fill.
const perDay = 4

// Gateway is the subset of *search.Gateway the orchestrator depends
// on, narrowed to an interface so tests can substitute a fake.
type Gateway interface {
	Search(ctx context.Context, query string, k int, filters model.Filters) ([]catalogindex.Candidate, error)
}

var _ Gateway = (*search.Gateway)(nil)

// Orchestrator wires the metrics builder, the LLM sketch call, the
// search gateway, and the query validator into the single-call
// pipeline Synthesize exposes.
type Orchestrator struct {
	gateway   Gateway
	completer llm.ChatCompleter
	cfg       llm.CompletionParams
	logger    *slog.Logger
}

// NewOrchestrator constructs an Orchestrator over process-wide,
// already-initialized services.
func NewOrchestrator(gateway Gateway, completer llm.ChatCompleter, cfg llm.CompletionParams, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{gateway: gateway, completer: completer, cfg: cfg, logger: logger}
}

// dayExpansion holds one day's resolved search query, target muscles,
// and the candidates it attracted before cross-day dedup.
type dayExpansion struct {
	query      string
	targets    []string
	candidates []catalogindex.Candidate
}

// Synthesize runs the full pipeline: profile hygiene, metrics, LLM
// sketch, per-day candidate expansion, cross-day dedup, back-fill, and
// final assembly.
func (o *Orchestrator) Synthesize(ctx context.Context, req Request) (model.Routine, error) {
	profile := ProfileHygiene(req.Profile)
	weekly := metrics.Build(req.Logs)
	filters := DeriveFilters(profile)
	diversity := queryvalidator.Diversity{PreferredEquipment: profile.PreferredEquipment}

	draft, err := o.sketch(ctx, weekly, profile, req)
	if err != nil {
		return model.Routine{}, errors.Wrap(err, "synthesize: sketch")
	}

	expansions := o.expandDays(ctx, draft, filters, diversity)
	dayExercises := dedupByScore(expansions)
	o.backfill(ctx, expansions, dayExercises, filters)

	dailyDetails := make([]model.DayDetail, len(draft.DailyDetails))
	for i, day := range draft.DailyDetails {
		sort.SliceStable(dayExercises[i], func(a, b int) bool {
			return dayExercises[i][a].Score > dayExercises[i][b].Score
		})
		exercises := make([]catalogindex.Exercise, len(dayExercises[i]))
		for j, c := range dayExercises[i] {
			exercises[j] = c.Exercise
		}
		dailyDetails[i] = model.DayDetail{
			Day:               day.Day,
			Focus:             day.Focus,
			TargetMuscles:     day.TargetMuscles,
			RAGQuery:          expansions[i].query,
			EstimatedDuration: day.EstimatedDuration,
			Exercises:         exercises,
		}
	}

	return o.assemble(ctx, draft, dailyDetails, filters), nil
}

func (o *Orchestrator) sketch(ctx context.Context, weekly model.WeeklyMetrics, profile model.UserProfile, req Request) (model.RoutineDraft, error) {
	if req.Days > 0 {
		return llm.SketchRoutine(ctx, o.completer, o.cfg, weekly, profile, req.Days, req.Frequency)
	}
	return llm.Sketch(ctx, o.completer, o.cfg, weekly, profile)
}

// expandDays runs expandDay for every sketched day in parallel,
// preserving the LLM's day ordering in the result slice.
func (o *Orchestrator) expandDays(ctx context.Context, draft model.RoutineDraft, filters model.Filters, diversity queryvalidator.Diversity) []dayExpansion {
	expansions := make([]dayExpansion, len(draft.DailyDetails))

	g, gctx := errgroup.WithContext(ctx)
	for i, day := range draft.DailyDetails {
		i, day := i, day
		g.Go(func() error {
			expansions[i] = o.expandDay(gctx, day, draft, filters, diversity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.WarnContext(ctx, "day expansion incomplete", errors.SlogError(err))
	}

	return expansions
}

// expandDay resolves one sketched day's targets and query, then tries
// three progressively looser searches, stopping at the first
// non-empty candidate set, and filters the result through the
// strict/broadened/recovery passes. Failures are swallowed: a day
// that cannot be expanded simply keeps empty candidates, per §7's
// non-fatal policy for per-day search failures.
func (o *Orchestrator) expandDay(ctx context.Context, day model.DayDetail, draft model.RoutineDraft, filters model.Filters, diversity queryvalidator.Diversity) dayExpansion {
	targets := vocabulary.Normalize(day.TargetMuscles)
	if len(targets) == 0 {
		targets = vocabulary.Normalize(draft.NextTargetMuscles)
	}

	validatedQuery, err := queryvalidator.Validate(day.RAGQuery, targets, diversity, true)
	if err != nil {
		validatedQuery = ""
	}

	var primary string
	if len(targets) > 0 {
		primary = targets[0]
	}

	raw, _ := o.searchIfNonEmpty(ctx, validatedQuery, 12, filters)

	if len(raw) == 0 && primary != "" {
		simpleQuery, _ := queryvalidator.Validate(primary+" exercise", targets, diversity, true)
		raw, _ = o.searchIfNonEmpty(ctx, simpleQuery, 18, filters)
	}

	if len(raw) == 0 && primary != "" {
		permissiveQuery, _ := queryvalidator.Validate(primary+" exercise", targets, diversity, false)
		raw, _ = o.searchIfNonEmpty(ctx, permissiveQuery, 18, filters)
	}

	taken := map[int]bool{}

	selected := filterByMuscle(raw, targets, perDay, taken)
	if len(selected) < perDay {
		expanded := expandTargets(targets)
		selected = append(selected, filterByMuscle(raw, expanded, perDay-len(selected), taken)...)
	}
	if len(selected) < perDay {
		recoveryQuery := primary
		if recoveryQuery == "" {
			recoveryQuery = validatedQuery
		}
		recoveryRaw, err := o.gateway.Search(ctx, recoveryQuery, 18, model.Filters{})
		if err == nil {
			selected = append(selected, takeUpTo(recoveryRaw, perDay-len(selected), taken)...)
		}
	}

	return dayExpansion{query: validatedQuery, targets: targets, candidates: selected}
}

func (o *Orchestrator) searchIfNonEmpty(ctx context.Context, query string, k int, filters model.Filters) ([]catalogindex.Candidate, error) {
	if query == "" {
		return nil, nil
	}
	candidates, err := o.gateway.Search(ctx, query, k, filters)
	if err != nil {
		o.logger.WarnContext(ctx, "day search attempt failed, trying next fallback",
			slog.String("query", query), errors.SlogError(err))
		return nil, err
	}
	return candidates, nil
}

// filterByMuscle keeps up to limit candidates (not already in taken)
// whose muscles match muscleSet, marking each kept exercise in taken.
func filterByMuscle(candidates []catalogindex.Candidate, muscleSet []string, limit int, taken map[int]bool) []catalogindex.Candidate {
	var out []catalogindex.Candidate
	if limit <= 0 {
		return out
	}
	for _, c := range candidates {
		if taken[c.Exercise.ExerciseID] {
			continue
		}
		if !search.MatchesMuscle(c.Exercise, muscleSet) {
			continue
		}
		out = append(out, c)
		taken[c.Exercise.ExerciseID] = true
		if len(out) >= limit {
			break
		}
	}
	return out
}

// takeUpTo keeps up to limit candidates regardless of muscle match,
// used only by the recovery pass once filters have already been
// loosened.
func takeUpTo(candidates []catalogindex.Candidate, limit int, taken map[int]bool) []catalogindex.Candidate {
	var out []catalogindex.Candidate
	if limit <= 0 {
		return out
	}
	for _, c := range candidates {
		if taken[c.Exercise.ExerciseID] {
			continue
		}
		out = append(out, c)
		taken[c.Exercise.ExerciseID] = true
		if len(out) >= limit {
			break
		}
	}
	return out
}

func expandTargets(targets []string) []string {
	var out []string
	for _, t := range targets {
		out = append(out, vocabulary.ExpandAliases(t)...)
	}
	return out
}

// dedupByScore resolves cross-day duplicate exerciseIDs, keeping each
// one on the day where it scored highest (earlier day index wins
// ties), and returns the per-day survivor lists in day order.
func dedupByScore(expansions []dayExpansion) [][]catalogindex.Candidate {
	type winner struct {
		dayIndex int
		score    float64
	}
	best := map[int]winner{}
	for dayIdx, exp := range expansions {
		for _, c := range exp.candidates {
			id := c.Exercise.ExerciseID
			cur, ok := best[id]
			if !ok || c.Score > cur.score {
				best[id] = winner{dayIndex: dayIdx, score: c.Score}
			}
		}
	}

	dayExercises := make([][]catalogindex.Candidate, len(expansions))
	for dayIdx, exp := range expansions {
		for _, c := range exp.candidates {
			if best[c.Exercise.ExerciseID].dayIndex == dayIdx {
				dayExercises[dayIdx] = append(dayExercises[dayIdx], c)
			}
		}
	}
	return dayExercises
}

// backfill tops up any day whose survivor count fell short of perDay
// after dedup, re-searching with the day's validated query while
// excluding every exerciseID already claimed by any day.
func (o *Orchestrator) backfill(ctx context.Context, expansions []dayExpansion, dayExercises [][]catalogindex.Candidate, filters model.Filters) {
	takenGlobally := map[int]bool{}
	for _, day := range dayExercises {
		for _, c := range day {
			takenGlobally[c.Exercise.ExerciseID] = true
		}
	}

	for dayIdx, day := range dayExercises {
		missing := perDay - len(day)
		if missing <= 0 {
			continue
		}
		query := expansions[dayIdx].query
		if query == "" {
			continue
		}
		extra, err := o.gateway.Search(ctx, query, missing*oversampleForBackfill, filters)
		if err != nil {
			continue
		}
		for _, c := range extra {
			if takenGlobally[c.Exercise.ExerciseID] {
				continue
			}
			dayExercises[dayIdx] = append(dayExercises[dayIdx], c)
			takenGlobally[c.Exercise.ExerciseID] = true
			missing--
			if missing <= 0 {
				break
			}
		}
	}
}

// oversampleForBackfill widens the back-fill search so that excluding
// already-taken exercises still leaves enough survivors to reach
// perDay.
const oversampleForBackfill = 4

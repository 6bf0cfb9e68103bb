package routine

import (
	"context"

	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
	"golang.org/x/sync/errgroup"
)

// nextTargetK is the number of candidates recorded per next-target
// muscle search.
const nextTargetK = 3

// assemble is the response assembler (C8): it resolves
// next_target_exercises with one isolated search per muscle, flattens
// the daily plan into a deduplicated recommended_exercises list, and
// re-validates every muscle-bearing field against the vocabulary
// before emission.
func (o *Orchestrator) assemble(ctx context.Context, draft model.RoutineDraft, dailyDetails []model.DayDetail, filters model.Filters) model.Routine {
	nextTargetMuscles := vocabulary.Normalize(draft.NextTargetMuscles)
	nextTargetExercises := o.NextTargetExercises(ctx, nextTargetMuscles, filters)

	var recommended []int
	seen := map[int]bool{}
	for _, day := range dailyDetails {
		for _, ex := range day.Exercises {
			if seen[ex.ExerciseID] {
				continue
			}
			seen[ex.ExerciseID] = true
			recommended = append(recommended, ex.ExerciseID)
		}
	}

	return model.Routine{
		StrengthsWeaknesses: draft.StrengthsWeaknesses,
		MuscleBalance: model.MuscleBalance{
			Overworked:  vocabulary.Normalize(draft.MuscleBalance.Overworked),
			Underworked: vocabulary.Normalize(draft.MuscleBalance.Underworked),
		},
		NextTargetMuscles:    nextTargetMuscles,
		DailyDetails:         dailyDetails,
		NextTargetExercises:  nextTargetExercises,
		RecommendedExercises: recommended,
	}
}

// NextTargetExercises runs one "{muscle} strengthening" search per
// muscle in parallel, since the sketch and the final next-target
// searches have no dependency on each other's results. Exported so
// internal/httpapi can fill next_target_exercises for /analyze-journal,
// which has no full Synthesize pipeline of its own.
func (o *Orchestrator) NextTargetExercises(ctx context.Context, muscles []string, filters model.Filters) map[string][]int {
	results := make([][]int, len(muscles))

	g, gctx := errgroup.WithContext(ctx)
	for i, muscle := range muscles {
		i, muscle := i, muscle
		g.Go(func() error {
			candidates, err := o.gateway.Search(gctx, muscle+" strengthening", nextTargetK, filters)
			if err != nil {
				o.logger.WarnContext(ctx, "next-target search failed, muscle yields no exercises")
				return nil
			}
			ids := make([]int, 0, len(candidates))
			for _, c := range candidates {
				ids = append(ids, c.Exercise.ExerciseID)
			}
			results[i] = ids
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]int, len(muscles))
	for i, muscle := range muscles {
		out[muscle] = results[i]
	}
	return out
}

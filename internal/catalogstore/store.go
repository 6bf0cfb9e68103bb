package catalogstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/ptr"
)

// UpsertExercise inserts or replaces the row for ex.ExerciseID. embeddingText
// is the normalized string that internal/ingest will embed into the vector
// index; it is stored alongside the row so the index can be rebuilt without
// re-deriving it from the source catalog.
func (db *Database) UpsertExercise(ctx context.Context, ex catalogindex.Exercise, embeddingText string) error {
	muscles, err := json.Marshal(ex.Muscles)
	if err != nil {
		return fmt.Errorf("marshal muscles: %w", err)
	}

	_, err = db.ReadWrite.ExecContext(ctx, `
INSERT INTO exercises (
	exercise_id, title, standard_title, training_name, muscles, equipment_tool,
	equipment_category, target_group, fitness_factor_name, fitness_level_name,
	description, video_url, video_length_seconds, image_url, image_file_name,
	calories_per_minute, embedding_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (exercise_id) DO UPDATE SET
	title = excluded.title,
	standard_title = excluded.standard_title,
	training_name = excluded.training_name,
	muscles = excluded.muscles,
	equipment_tool = excluded.equipment_tool,
	equipment_category = excluded.equipment_category,
	target_group = excluded.target_group,
	fitness_factor_name = excluded.fitness_factor_name,
	fitness_level_name = excluded.fitness_level_name,
	description = excluded.description,
	video_url = excluded.video_url,
	video_length_seconds = excluded.video_length_seconds,
	image_url = excluded.image_url,
	image_file_name = excluded.image_file_name,
	calories_per_minute = excluded.calories_per_minute,
	embedding_text = excluded.embedding_text
`,
		ex.ExerciseID, ex.Title, ex.StandardTitle, ex.TrainingName, string(muscles), ex.EquipmentTool,
		ex.EquipmentCategory, string(ex.TargetGroup), ex.FitnessFactor, ex.FitnessLevel,
		ex.Description, ex.VideoURL, ex.VideoLengthSeconds, ex.ImageURL, ex.ImageFileName,
		ex.CaloriesPerMinute, embeddingText)
	if err != nil {
		return fmt.Errorf("upsert exercise %d: %w", ex.ExerciseID, err)
	}
	return nil
}

// ExerciseRow pairs a catalog exercise with the text its embedding was (or
// will be) derived from.
type ExerciseRow struct {
	Exercise      catalogindex.Exercise
	EmbeddingText string
}

// ListExercises returns every row ordered by exercise_id, for consumption by
// the offline index builder.
func (db *Database) ListExercises(ctx context.Context) ([]ExerciseRow, error) {
	rows, err := db.ReadOnly.QueryContext(ctx, `
SELECT exercise_id, title, standard_title, training_name, muscles, equipment_tool,
       equipment_category, target_group, fitness_factor_name, fitness_level_name,
       description, video_url, video_length_seconds, image_url, image_file_name,
       calories_per_minute, embedding_text
FROM exercises
ORDER BY exercise_id
`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []ExerciseRow
	for rows.Next() {
		var (
			row           ExerciseRow
			musclesJSON   string
			targetGroup   string
			caloriesPerMi sql.NullFloat64
		)
		if err = rows.Scan(
			&row.Exercise.ExerciseID, &row.Exercise.Title, &row.Exercise.StandardTitle, &row.Exercise.TrainingName,
			&musclesJSON, &row.Exercise.EquipmentTool, &row.Exercise.EquipmentCategory, &targetGroup,
			&row.Exercise.FitnessFactor, &row.Exercise.FitnessLevel, &row.Exercise.Description,
			&row.Exercise.VideoURL, &row.Exercise.VideoLengthSeconds, &row.Exercise.ImageURL,
			&row.Exercise.ImageFileName, &caloriesPerMi, &row.EmbeddingText,
		); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		if err = json.Unmarshal([]byte(musclesJSON), &row.Exercise.Muscles); err != nil {
			return nil, fmt.Errorf("unmarshal muscles for exercise %d: %w", row.Exercise.ExerciseID, err)
		}
		row.Exercise.TargetGroup = catalogindex.TargetGroup(targetGroup)
		if caloriesPerMi.Valid {
			row.Exercise.CaloriesPerMinute = ptr.Ref(caloriesPerMi.Float64)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}
	return result, nil
}

// CountExercises returns the number of rows currently stored, used by
// tests.
func (db *Database) CountExercises(ctx context.Context) (int, error) {
	var count int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&count); err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return count, nil
}

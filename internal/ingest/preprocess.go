// Package ingest implements the offline two-stage catalog build: Preprocess
// reads the raw exercise CSV into internal/catalogstore, and BuildIndex reads
// catalogstore rows, embeds each one, and writes the two on-disk index
// artifacts internal/catalogindex loads at server startup.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/catalogstore"
	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/ptr"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

// ErrInvalidRecord marks a CSV row that cannot be turned into a catalog
// exercise, per the §7 "invalid input" exit path.
var ErrInvalidRecord = errors.NewSentinel("invalid catalog record")

// textFields lists the source columns that feed the embedding text, in the
// order they are rendered, mirroring the field set and ordering the original
// preprocessing script embeds.
var textFields = []string{
	"title", "standard_title", "training_name", "body_part", "exercise_tool",
	"fitness_level_name", "fitness_factor_name", "target_group",
	"description", "muscles", "video_url",
}

// Preprocess reads a CSV of raw exercise records from r and upserts one
// normalized catalogindex.Exercise per row into db, returning the number of
// rows processed.
func Preprocess(ctx context.Context, r io.Reader, db *catalogstore.Database) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(ErrInvalidRecord, "read header: "+err.Error())
	}
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[strings.TrimSpace(name)] = i
	}

	count := 0
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return count, errors.Wrap(ErrInvalidRecord, "read row: "+readErr.Error())
		}

		row := make(map[string]string, len(columnIndex))
		for name, idx := range columnIndex {
			if idx < len(record) {
				row[name] = strings.TrimSpace(record[idx])
			}
		}

		ex, err := recordToExercise(row)
		if err != nil {
			return count, err
		}

		if err = db.UpsertExercise(ctx, ex, buildEmbeddingText(row)); err != nil {
			return count, fmt.Errorf("upsert exercise: %w", err)
		}
		count++
	}

	return count, nil
}

func recordToExercise(row map[string]string) (catalogindex.Exercise, error) {
	id, err := strconv.Atoi(row["exercise_id"])
	if err != nil {
		return catalogindex.Exercise{}, errors.Wrap(ErrInvalidRecord,
			"parse exercise_id: "+row["exercise_id"])
	}

	title := row["title"]
	if title == "" {
		title = row["standard_title"]
	}
	if title == "" {
		return catalogindex.Exercise{}, errors.Wrap(ErrInvalidRecord,
			fmt.Sprintf("exercise %d missing title", id))
	}

	ex := catalogindex.Exercise{
		ExerciseID:        id,
		Title:             title,
		StandardTitle:     row["standard_title"],
		TrainingName:      row["training_name"],
		Muscles:           vocabulary.Normalize(splitMuscles(row["muscles"])),
		EquipmentTool:     row["exercise_tool"],
		EquipmentCategory: string(vocabulary.CategorizeEquipment(row["exercise_tool"])),
		TargetGroup:       catalogindex.TargetGroup(strings.ToLower(row["target_group"])),
		FitnessFactor:     row["fitness_factor_name"],
		FitnessLevel:      row["fitness_level_name"],
		Description:       row["description"],
		VideoURL:          row["video_url"],
		ImageURL:          row["image_url"],
		ImageFileName:     row["image_file_name"],
	}

	if seconds := row["video_length_seconds"]; seconds != "" {
		if v, convErr := strconv.Atoi(seconds); convErr == nil {
			ex.VideoLengthSeconds = v
		}
	}
	if calories := row["calories_per_minute"]; calories != "" {
		if v, convErr := strconv.ParseFloat(calories, 64); convErr == nil {
			ex.CaloriesPerMinute = ptr.Ref(v)
		}
	}

	return ex, nil
}

func splitMuscles(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildEmbeddingText renders the subset of row fields that carry semantic
// content into a single newline-delimited chunk, skipping absent fields, the
// same "label: value" shape the original chunk builder uses.
func buildEmbeddingText(row map[string]string) string {
	var b strings.Builder
	for _, field := range textFields {
		value := row[field]
		if value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}

package catalogstore_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/catalogstore"
	"github.com/fitcoach/routinecoach/internal/testhelpers"
)

func newTestDatabase(t *testing.T) *catalogstore.Database {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := catalogstore.NewDatabase(context.Background(), ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestUpsertAndListExercisesRoundTrips(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := context.Background()

	calories := 8.5
	want := catalogindex.Exercise{
		ExerciseID:        1,
		Title:             "Barbell Bench Press",
		StandardTitle:     "bench press",
		Muscles:           []string{"chest", "triceps"},
		EquipmentTool:     "barbell",
		EquipmentCategory: "free_weights",
		TargetGroup:       catalogindex.Adult,
		CaloriesPerMinute: &calories,
	}

	if err := db.UpsertExercise(ctx, want, "bench press chest triceps barbell"); err != nil {
		t.Fatalf("UpsertExercise() error = %v", err)
	}

	rows, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListExercises() returned %d rows, want 1", len(rows))
	}
	if diff := cmp.Diff(want, rows[0].Exercise); diff != "" {
		t.Errorf("ListExercises() exercise mismatch (-want +got):\n%s", diff)
	}
	if rows[0].EmbeddingText != "bench press chest triceps barbell" {
		t.Errorf("EmbeddingText = %q, want %q", rows[0].EmbeddingText, "bench press chest triceps barbell")
	}
}

func TestUpsertExerciseOverwritesOnConflict(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := context.Background()

	first := catalogindex.Exercise{ExerciseID: 7, Title: "Old Title", Muscles: []string{"back"}}
	second := catalogindex.Exercise{ExerciseID: 7, Title: "New Title", Muscles: []string{"back", "lats"}}

	if err := db.UpsertExercise(ctx, first, "old"); err != nil {
		t.Fatalf("UpsertExercise() first error = %v", err)
	}
	if err := db.UpsertExercise(ctx, second, "new"); err != nil {
		t.Fatalf("UpsertExercise() second error = %v", err)
	}

	count, err := db.CountExercises(ctx)
	if err != nil {
		t.Fatalf("CountExercises() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("CountExercises() = %d, want 1 (conflict should overwrite, not insert)", count)
	}

	rows, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if rows[0].Exercise.Title != "New Title" {
		t.Errorf("Title = %q, want %q", rows[0].Exercise.Title, "New Title")
	}
}

func TestCountExercisesEmptyDatabase(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)

	count, err := db.CountExercises(context.Background())
	if err != nil {
		t.Fatalf("CountExercises() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountExercises() = %d, want 0", count)
	}
}

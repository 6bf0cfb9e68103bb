package ingest_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fitcoach/routinecoach/internal/catalogstore"
	"github.com/fitcoach/routinecoach/internal/ingest"
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

const sampleCSV = `exercise_id,title,standard_title,muscles,exercise_tool,target_group,description
1,Barbell Squat,squat,"quadriceps,glutes",barbell,adult,Compound lower body lift
2,Bodyweight Push-up,push-up,"chest,triceps",bodyweight,common,Classic upper body exercise
`

func TestPreprocessUpsertsEveryRow(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := context.Background()

	n, err := ingest.Preprocess(ctx, strings.NewReader(sampleCSV), db)
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("Preprocess() = %d, want 2", n)
	}

	count, err := db.CountExercises(ctx)
	if err != nil {
		t.Fatalf("CountExercises() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountExercises() = %d, want 2", count)
	}

	rows, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if rows[0].Exercise.Title != "Barbell Squat" {
		t.Errorf("Title = %q, want %q", rows[0].Exercise.Title, "Barbell Squat")
	}
	if rows[0].Exercise.EquipmentCategory != "barbell" {
		t.Errorf("EquipmentCategory = %q, want %q", rows[0].Exercise.EquipmentCategory, "barbell")
	}
	if rows[0].EmbeddingText == "" {
		t.Error("EmbeddingText should not be empty")
	}
}

func TestPreprocessRejectsMissingTitle(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)

	const csvMissingTitle = "exercise_id,title\n3,\n"
	_, err := ingest.Preprocess(context.Background(), strings.NewReader(csvMissingTitle), db)
	if err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestPreprocessRejectsNonNumericID(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)

	const csvBadID = "exercise_id,title\nabc,Squat\n"
	_, err := ingest.Preprocess(context.Background(), strings.NewReader(csvBadID), db)
	if err == nil {
		t.Fatal("expected error for non-numeric exercise_id")
	}
}

package catalogindex_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
)

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func TestSearchOrdersByDescendingScore(t *testing.T) {
	vectors := [][]float32{
		normalize([]float32{1, 0, 0}),
		normalize([]float32{0, 1, 0}),
		normalize([]float32{0.9, 0.1, 0}),
	}
	metadata := []catalogindex.Exercise{
		{ExerciseID: 1, Title: "push-up"},
		{ExerciseID: 2, Title: "row"},
		{ExerciseID: 3, Title: "incline push-up"},
	}

	idx, err := catalogindex.New("test-model", vectors, metadata)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := idx.Search(normalize([]float32{1, 0, 0}), 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Exercise.ExerciseID != 1 {
		t.Errorf("results[0].Exercise.ExerciseID = %d, want 1", results[0].Exercise.ExerciseID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted descending: %v", results)
	}
}

func TestNewRejectsRowCountMismatch(t *testing.T) {
	_, err := catalogindex.New("test-model", [][]float32{{1, 0}}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched row counts")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vectorPath := filepath.Join(dir, "index.bin")
	metadataPath := filepath.Join(dir, "metadata.jsonl")

	vectors := [][]float32{normalize([]float32{1, 2, 3}), normalize([]float32{4, 5, 6})}
	metadata := []catalogindex.Exercise{
		{ExerciseID: 10, Title: "squat"},
		{ExerciseID: 11, Title: "lunge"},
	}

	if err := catalogindex.Write(vectorPath, metadataPath, "test-model", vectors, metadata); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	idx, err := catalogindex.Load(context.Background(), vectorPath, metadataPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, want := idx.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := idx.Model(), "test-model"; got != want {
		t.Errorf("Model() = %q, want %q", got, want)
	}

	results, err := idx.Search(vectors[0], 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Exercise.ExerciseID != 10 {
		t.Errorf("results[0].Exercise.ExerciseID = %d, want 10", results[0].Exercise.ExerciseID)
	}
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx, err := catalogindex.New("test-model", [][]float32{{1, 0, 0}}, []catalogindex.Exercise{{ExerciseID: 1}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := idx.Search([]float32{1, 0}, 1); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

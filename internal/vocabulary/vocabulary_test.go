package vocabulary_test

import (
	"slices"
	"testing"

	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "exact canonical labels pass through",
			input: []string{"biceps brachii", "gluteus maximus"},
			want:  []string{"biceps brachii", "gluteus maximus"},
		},
		{
			name:  "case insensitive exact match",
			input: []string{"Biceps Brachii"},
			want:  []string{"biceps brachii"},
		},
		{
			name:  "alias expands to multiple canonical labels",
			input: []string{"chest"},
			want:  []string{"pectoralis major", "pectoralis minor"},
		},
		{
			name:  "duplicates removed preserving first occurrence",
			input: []string{"chest", "pectoralis major"},
			want:  []string{"pectoralis major", "pectoralis minor"},
		},
		{
			name:  "unresolvable names dropped silently",
			input: []string{"not a real muscle", "biceps"},
			want:  []string{"biceps brachii"},
		},
		{
			name:  "empty and whitespace input ignored",
			input: []string{"", "   "},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vocabulary.Normalize(tt.input)
			if got == nil {
				got = []string{}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := [][]string{
		{"chest", "shoulder", "biceps"},
		{"not a muscle"},
		{},
		{"gluteus maximus", "glutes"},
	}

	for _, in := range inputs {
		once := vocabulary.Normalize(in)
		twice := vocabulary.Normalize(once)
		if !slices.Equal(once, twice) {
			t.Errorf("Normalize not idempotent for %v: once=%v twice=%v", in, once, twice)
		}
	}
}

func TestExpandAliasesIncludesLabelItself(t *testing.T) {
	expanded := vocabulary.ExpandAliases("pectoralis major")
	if !slices.Contains(expanded, "pectoralis major") {
		t.Errorf("ExpandAliases(%q) = %v, want it to contain itself", "pectoralis major", expanded)
	}
}

func TestCategorizeEquipment(t *testing.T) {
	tests := []struct {
		tool string
		want vocabulary.EquipmentCategory
	}{
		{"Olympic Barbell", vocabulary.Barbell},
		{"adjustable dumbbell", vocabulary.Dumbbell},
		{"flat bench", vocabulary.Bench},
		{"resistance band", vocabulary.Band},
		{"bodyweight", vocabulary.Bodyweight},
		{"some unheard-of contraption", vocabulary.Other},
		{"", vocabulary.Other},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := vocabulary.CategorizeEquipment(tt.tool); got != tt.want {
				t.Errorf("CategorizeEquipment(%q) = %q, want %q", tt.tool, got, tt.want)
			}
		})
	}
}

func TestIsIntentKeyword(t *testing.T) {
	if !vocabulary.IsIntentKeyword("Strengthen") {
		t.Error("expected \"Strengthen\" to be recognized as an intent keyword")
	}
	if vocabulary.IsIntentKeyword("banana") {
		t.Error("expected \"banana\" not to be recognized as an intent keyword")
	}
}

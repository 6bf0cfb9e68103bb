package routine_test

import (
	"testing"

	"github.com/fitcoach/routinecoach/internal/model"
	"github.com/fitcoach/routinecoach/internal/routine"
)

func TestProfileHygieneStripsEmptyAndNotSelected(t *testing.T) {
	empty := ""
	notSelected := "Not Selected"
	youth := "youth"

	cleaned := routine.ProfileHygiene(model.UserProfile{
		TargetGroup:        &youth,
		FitnessLevel:       &empty,
		FitnessFactor:      &notSelected,
		PreferredEquipment: []string{"dumbbell", "", "not selected", "machine"},
	})

	if cleaned.TargetGroup == nil || *cleaned.TargetGroup != "youth" {
		t.Errorf("TargetGroup = %v, want youth", cleaned.TargetGroup)
	}
	if cleaned.FitnessLevel != nil {
		t.Errorf("FitnessLevel = %v, want nil for empty string", cleaned.FitnessLevel)
	}
	if cleaned.FitnessFactor != nil {
		t.Errorf("FitnessFactor = %v, want nil for \"not selected\"", cleaned.FitnessFactor)
	}
	want := []string{"dumbbell", "machine"}
	if len(cleaned.PreferredEquipment) != len(want) {
		t.Fatalf("PreferredEquipment = %v, want %v", cleaned.PreferredEquipment, want)
	}
	for i, v := range want {
		if cleaned.PreferredEquipment[i] != v {
			t.Errorf("PreferredEquipment[%d] = %q, want %q", i, cleaned.PreferredEquipment[i], v)
		}
	}
}

func TestProfileHygieneHandlesAllAbsent(t *testing.T) {
	cleaned := routine.ProfileHygiene(model.UserProfile{})
	if cleaned.TargetGroup != nil || cleaned.FitnessLevel != nil || cleaned.FitnessFactor != nil {
		t.Errorf("expected all profile fields to stay nil, got %+v", cleaned)
	}
}

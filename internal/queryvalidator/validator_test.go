package queryvalidator_test

import (
	"strings"
	"testing"

	"github.com/fitcoach/routinecoach/internal/queryvalidator"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

func TestValidateGuarantees(t *testing.T) {
	tests := []struct {
		name             string
		query            string
		targets          []string
		diversity        queryvalidator.Diversity
		enforceEquipment bool
	}{
		{
			name:    "bare query gains target and intent",
			query:   "ok",
			targets: []string{"biceps brachii"},
		},
		{
			name:    "query already has target and intent",
			query:   "exercise for biceps brachii",
			targets: []string{"biceps brachii"},
		},
		{
			name:             "equipment enforced and missing",
			query:            "strengthen biceps brachii",
			targets:          []string{"biceps brachii"},
			diversity:        queryvalidator.Diversity{PreferredEquipment: []string{"dumbbell"}},
			enforceEquipment: true,
		},
		{
			name:  "overlong query truncated",
			query: strings.Repeat("a", 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := queryvalidator.Validate(tt.query, tt.targets, tt.diversity, tt.enforceEquipment)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			if len(got) < 3 || len(got) > 200 {
				t.Errorf("Validate() length = %d, want in [3, 200]", len(got))
			}

			lower := strings.ToLower(got)
			if len(tt.targets) > 0 {
				found := false
				for _, target := range tt.targets {
					if strings.Contains(lower, strings.ToLower(target)) {
						found = true
					}
				}
				if !found {
					t.Errorf("Validate() = %q, want it to contain a target muscle from %v", got, tt.targets)
				}
			}

			hasIntent := false
			for _, kw := range vocabulary.IntentKeywords() {
				if strings.Contains(lower, kw) {
					hasIntent = true
				}
			}
			if !hasIntent {
				t.Errorf("Validate() = %q, want an intent keyword", got)
			}

			if tt.enforceEquipment && len(tt.diversity.PreferredEquipment) > 0 {
				found := false
				for _, eq := range tt.diversity.PreferredEquipment {
					if strings.Contains(lower, strings.ToLower(eq)) {
						found = true
					}
				}
				if !found {
					t.Errorf("Validate() = %q, want an equipment keyword from %v", got, tt.diversity.PreferredEquipment)
				}
			}
		})
	}
}

func TestValidateRejectsEmptyWithNoTargets(t *testing.T) {
	_, err := queryvalidator.Validate("", nil, queryvalidator.Diversity{}, false)
	if err == nil {
		t.Fatal("expected error for empty query with no fallback target")
	}
}

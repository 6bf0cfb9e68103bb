// Package queryvalidator guarantees that every search query handed to
// the catalog search gateway (C3) carries a target muscle, an
// exercise-intent keyword, and — when requested — an equipment
// keyword, regardless of what the LLM actually produced.
package queryvalidator

import (
	"strings"

	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/vocabulary"
)

const (
	minQueryLength = 3
	maxQueryLength = 200
)

// ErrQueryInvalid marks a query the validator could not repair: shorter
// than minQueryLength after trimming, with no target to fall back to.
var ErrQueryInvalid = errors.NewSentinel("query is empty")

// Diversity carries the user's preferred equipment list, consulted
// only when enforceEquipment is set.
type Diversity struct {
	PreferredEquipment []string
}

// Validate rewrites query so it satisfies the retrieval invariants:
// length in [3, 200]; at least one target muscle present; at least
// one equipment keyword present when enforceEquipment is on and a
// preference list is supplied; at least one intent keyword present.
func Validate(query string, targets []string, diversity Diversity, enforceEquipment bool) (string, error) {
	q := strings.TrimSpace(query)
	if len(q) < minQueryLength {
		if len(targets) == 0 {
			return "", errors.Wrap(ErrQueryInvalid, "validate query")
		}
		q = targets[0]
	}

	lower := strings.ToLower(q)
	var guaranteed []string

	if len(targets) > 0 && !containsAny(lower, targets) {
		guaranteed = append(guaranteed, targets[0])
		lower += " " + strings.ToLower(targets[0])
	}

	if enforceEquipment && len(diversity.PreferredEquipment) > 0 {
		if !hasEquipmentKeyword(lower, diversity.PreferredEquipment) {
			guaranteed = append(guaranteed, diversity.PreferredEquipment[0])
			lower += " " + strings.ToLower(diversity.PreferredEquipment[0])
		}
	}

	if !hasIntentKeyword(lower) {
		guaranteed = append(guaranteed, vocabulary.IntentKeywords()[0])
	}

	// Truncate the body first, reserving room for the guaranteed words
	// so appending them below never pushes the result back over
	// maxQueryLength and never gets sliced back off by a later trim.
	suffix := strings.Join(guaranteed, " ")
	budget := maxQueryLength
	if suffix != "" {
		budget = maxQueryLength - len(suffix) - 1
		if budget < 0 {
			budget = 0
		}
	}
	if len(q) > budget {
		q = q[:budget]
	}

	q = appendWord(q, suffix)

	return q, nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func hasEquipmentKeyword(haystack string, preferred []string) bool {
	if containsAny(haystack, preferred) {
		return true
	}
	for _, category := range []string{"bodyweight", "machine", "dumbbell", "bench", "band", "ball", "rope",
		"step", "cone", "ball-game", "racket", "hoop", "bike", "treadmill", "barbell", "plate", "bosu",
		"ladder", "foam-roller", "stick", "kettlebell", "line"} {
		if strings.Contains(haystack, category) {
			return true
		}
	}
	return false
}

func hasIntentKeyword(haystack string) bool {
	for _, kw := range vocabulary.IntentKeywords() {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func appendWord(query, word string) string {
	if word == "" {
		return query
	}
	if query == "" {
		return word
	}
	return query + " " + word
}

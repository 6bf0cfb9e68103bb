// Package vocabulary holds the canonical muscle-label set and the
// equipment-category closed set, and normalizes free-text names from
// logs and LLM output into that vocabulary.
package vocabulary

import "strings"

// MuscleLabels is the closed set of canonical anatomical labels. Every
// muscle string appearing anywhere in a response must be a member of
// this set.
var MuscleLabels = []string{
	"erector spinae", "trapezius", "rhomboids", "latissimus dorsi",
	"teres major", "teres minor", "infraspinatus", "supraspinatus",
	"subscapularis", "anterior deltoid", "lateral deltoid", "posterior deltoid",
	"pectoralis major", "pectoralis minor", "biceps brachii", "triceps brachii",
	"brachialis", "brachioradialis", "wrist flexors", "wrist extensors",
	"radial wrist flexor", "radial wrist extensor", "rectus abdominis",
	"transverse abdominis", "external oblique", "internal oblique",
	"quadratus lumborum", "psoas major", "iliopsoas", "iliacus",
	"hip flexors", "gluteus maximus", "gluteus medius", "gluteus minimus",
	"piriformis", "adductors", "adductor longus", "adductor brevis",
	"gracilis", "quadriceps", "rectus femoris", "vastus lateralis",
	"vastus medialis", "tensor fasciae latae", "iliotibial band",
	"hamstrings", "biceps femoris", "semitendinosus", "semimembranosus",
	"gastrocnemius", "soleus", "triceps surae", "tibialis anterior",
	"tibialis posterior", "extensor digitorum longus", "extensor hallucis longus",
	"sternocleidomastoid", "longus colli", "splenius capitis", "splenius cervicis",
	"semispinalis capitis", "longissimus capitis", "interspinales",
	"intertransversarii", "multifidus", "external intercostals",
	"internal intercostals", "serratus anterior", "levator scapulae",
	"rotator cuff",
}

// aliasTable maps common colloquial names to one or more canonical
// labels. Keys and member checks are matched case-insensitively.
var aliasTable = map[string][]string{
	"shoulder":       {"anterior deltoid", "lateral deltoid", "posterior deltoid", "subscapularis"},
	"shoulders":      {"anterior deltoid", "lateral deltoid", "posterior deltoid"},
	"arm":            {"biceps brachii", "triceps brachii", "brachialis", "brachioradialis"},
	"arms":           {"biceps brachii", "triceps brachii", "brachialis"},
	"biceps":         {"biceps brachii"},
	"triceps":        {"triceps brachii"},
	"abs":            {"rectus abdominis", "transverse abdominis", "external oblique", "internal oblique"},
	"abdominals":     {"rectus abdominis", "transverse abdominis"},
	"core":           {"rectus abdominis", "transverse abdominis", "psoas major"},
	"calf":           {"gastrocnemius", "triceps surae", "tibialis posterior"},
	"calves":         {"gastrocnemius", "triceps surae"},
	"glutes":         {"gluteus maximus", "gluteus medius", "gluteus minimus"},
	"buttocks":       {"gluteus maximus", "gluteus medius", "gluteus minimus"},
	"chest":          {"pectoralis major", "pectoralis minor"},
	"back":           {"latissimus dorsi", "trapezius", "erector spinae"},
	"upper back":     {"trapezius", "rhomboids"},
	"lower back":     {"psoas major", "quadratus lumborum", "erector spinae"},
	"legs":           {"quadriceps", "hamstrings", "gluteus maximus", "gluteus medius", "gluteus minimus"},
	"thigh":          {"quadriceps", "hamstrings"},
	"thighs":         {"quadriceps", "hamstrings"},
	"quads":          {"quadriceps", "rectus femoris"},
	"hip":            {"hip flexors", "iliopsoas", "piriformis"},
	"hips":           {"hip flexors", "iliopsoas"},
	"neck":           {"sternocleidomastoid", "splenius capitis", "splenius cervicis"},
	"obliques":       {"external oblique", "internal oblique"},
	"forearm":        {"brachioradialis", "wrist flexors", "wrist extensors"},
	"forearms":       {"brachioradialis", "wrist flexors", "wrist extensors"},
	"rotator cuffs":  {"rotator cuff", "infraspinatus", "supraspinatus", "teres minor"},
}

// intentKeywords are the words the query validator (C7) accepts as
// evidence of exercise intent.
var intentKeywords = []string{"exercise", "strengthen", "develop", "training", "stretch", "recovery"}

// Normalize maps each candidate string to zero or more canonical
// labels via exact match, alias lookup, substring match (both
// directions) and keyword match over the alias table. Duplicates are
// removed and input order is preserved; unresolvable names are
// dropped silently.
func Normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}

		if label, ok := exactMatch(name); ok {
			add(label)
			continue
		}

		if labels, ok := aliasTable[name]; ok {
			for _, l := range labels {
				add(l)
			}
			continue
		}

		if labels := substringMatch(name); len(labels) > 0 {
			for _, l := range labels {
				add(l)
			}
			continue
		}

		if labels := keywordMatch(name); len(labels) > 0 {
			for _, l := range labels {
				add(l)
			}
		}
	}

	return out
}

func exactMatch(name string) (string, bool) {
	for _, label := range MuscleLabels {
		if strings.EqualFold(label, name) {
			return label, true
		}
	}
	return "", false
}

// substringMatch checks whether name contains a canonical label or a
// canonical label contains name, in either direction.
func substringMatch(name string) []string {
	var out []string
	for _, label := range MuscleLabels {
		l := strings.ToLower(label)
		if strings.Contains(name, l) || strings.Contains(l, name) {
			out = append(out, label)
		}
	}
	return out
}

// keywordMatch scans the alias table's keys for a substring match in
// either direction and returns the first hit's canonical labels.
func keywordMatch(name string) []string {
	for key, labels := range aliasTable {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return labels
		}
	}
	return nil
}

// ExpandAliases returns every canonical label considered "related" to
// label for retrieval purposes: the label itself, plus every alias
// table entry whose values contain it, plus any alias whose key
// matches label.
func ExpandAliases(label string) []string {
	lower := strings.ToLower(label)
	seen := map[string]bool{label: true}
	out := []string{label}

	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}

	if related, ok := aliasTable[lower]; ok {
		for _, l := range related {
			add(l)
		}
	}

	for _, related := range aliasTable {
		for _, l := range related {
			if strings.EqualFold(l, label) {
				for _, sibling := range related {
					add(sibling)
				}
			}
		}
	}

	return out
}

// IsIntentKeyword reports whether word is one of the exercise-intent
// keywords accepted by the query validator.
func IsIntentKeyword(word string) bool {
	lower := strings.ToLower(word)
	for _, k := range intentKeywords {
		if lower == k {
			return true
		}
	}
	return false
}

// IntentKeywords returns the closed set of exercise-intent keywords.
func IntentKeywords() []string {
	out := make([]string, len(intentKeywords))
	copy(out, intentKeywords)
	return out
}

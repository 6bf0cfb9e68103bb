package vocabulary

import "strings"

// EquipmentCategory is a member of the closed equipment-category set.
type EquipmentCategory string

// The closed set of equipment categories. Unknown tools map to Other.
const (
	Bodyweight EquipmentCategory = "bodyweight"
	Machine    EquipmentCategory = "machine"
	Dumbbell   EquipmentCategory = "dumbbell"
	Bench      EquipmentCategory = "bench"
	Band       EquipmentCategory = "band"
	Ball       EquipmentCategory = "ball"
	Rope       EquipmentCategory = "rope"
	Step       EquipmentCategory = "step"
	Cone       EquipmentCategory = "cone"
	BallGame   EquipmentCategory = "ball-game"
	Racket     EquipmentCategory = "racket"
	Hoop       EquipmentCategory = "hoop"
	Bike       EquipmentCategory = "bike"
	Treadmill  EquipmentCategory = "treadmill"
	Barbell    EquipmentCategory = "barbell"
	Plate      EquipmentCategory = "plate"
	Bosu       EquipmentCategory = "bosu"
	Ladder     EquipmentCategory = "ladder"
	FoamRoller EquipmentCategory = "foam-roller"
	Stick      EquipmentCategory = "stick"
	Kettlebell EquipmentCategory = "kettlebell"
	Line       EquipmentCategory = "line"
	Other      EquipmentCategory = "other"
)

// equipmentKeywords maps each category to the case-insensitive
// keywords that identify it in a free-text tool string.
var equipmentKeywords = map[EquipmentCategory][]string{
	Bodyweight: {"bodyweight", "body weight", "no equipment", "calisthenics"},
	Machine:    {"machine", "cable", "smith", "press machine"},
	Dumbbell:   {"dumbbell"},
	Bench:      {"bench", "chair"},
	Band:       {"band", "resistance band", "tubing"},
	Ball:       {"ball", "stability ball", "gym ball", "fitness ball", "medicine ball"},
	Rope:       {"jump rope", "rope"},
	Step:       {"step box", "step bench", "stepbench"},
	Cone:       {"cone"},
	BallGame:   {"circle ring", "magic circle"},
	Racket:     {"racket", "racquet"},
	Hoop:       {"hula hoop", "hoop"},
	Bike:       {"bike", "cycle", "stationary bike"},
	Treadmill:  {"treadmill"},
	Barbell:    {"barbell"},
	Plate:      {"plate", "weight plate"},
	Bosu:       {"bosu"},
	Ladder:     {"ladder", "agility ladder"},
	FoamRoller: {"foam roller", "foam-roller", "massage roller"},
	Stick:      {"stick", "body bar", "aqua stick"},
	Kettlebell: {"kettlebell"},
	Line:       {"floor line", "agility line", "rope trainer"},
}

// categoryOrder fixes a deterministic lookup order so overlapping
// keywords (e.g. "rope" under both Rope and Line) resolve consistently.
var categoryOrder = []EquipmentCategory{
	Bodyweight, Machine, Dumbbell, Bench, Band, Ball, Rope, Step, Cone,
	BallGame, Racket, Hoop, Bike, Treadmill, Barbell, Plate, Bosu,
	Ladder, FoamRoller, Stick, Kettlebell, Line,
}

// CategorizeEquipment maps a free-text equipment tool string to a
// member of the closed category set, falling back to Other when no
// keyword matches.
func CategorizeEquipment(tool string) EquipmentCategory {
	lower := strings.ToLower(strings.TrimSpace(tool))
	if lower == "" {
		return Other
	}
	for _, category := range categoryOrder {
		for _, keyword := range equipmentKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return Other
}

// Package catalogindex implements a read-only, unit-normalized vector
// index over catalog exercises plus its parallel metadata array. The
// index is built offline (see internal/ingest) and loaded once at
// server startup.
package catalogindex

// TargetGroup is the closed age-cohort set an Exercise targets.
type TargetGroup string

const (
	Youth      TargetGroup = "youth"
	Adolescent TargetGroup = "adolescent"
	Adult      TargetGroup = "adult"
	Elder      TargetGroup = "elder"
	Common     TargetGroup = "common"
)

// Exercise is one catalog item: stable identifier plus every field the
// response surface can expose.
type Exercise struct {
	ExerciseID          int         `json:"exercise_id"`
	Title               string      `json:"title"`
	StandardTitle       string      `json:"standard_title,omitempty"`
	TrainingName        string      `json:"training_name,omitempty"`
	Muscles             []string    `json:"muscles"`
	EquipmentTool       string      `json:"equipment_tool,omitempty"`
	EquipmentCategory   string      `json:"equipment_category"`
	TargetGroup         TargetGroup `json:"target_group,omitempty"`
	FitnessFactor       string      `json:"fitness_factor_name,omitempty"`
	FitnessLevel        string      `json:"fitness_level_name,omitempty"`
	Description         string      `json:"description,omitempty"`
	VideoURL            string      `json:"video_url,omitempty"`
	VideoLengthSeconds   int        `json:"video_length_seconds,omitempty"`
	ImageURL            string      `json:"image_url,omitempty"`
	ImageFileName       string      `json:"image_file_name,omitempty"`
	CaloriesPerMinute   *float64    `json:"calories_per_minute,omitempty"`
}

// Candidate is one search result: a row's metadata plus the
// similarity score that produced it.
type Candidate struct {
	Score    float64
	Exercise Exercise
}

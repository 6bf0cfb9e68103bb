package routine

import "github.com/fitcoach/routinecoach/internal/model"

// Request is the input to Synthesize. Days and Frequency are only
// meaningful for the explicit /recommend-routine endpoint; a zero
// Days means "let the sketch template decide the plan length", which
// is what the /weekly-pattern handler passes.
type Request struct {
	Logs      []model.LogEntry
	Profile   model.UserProfile
	Days      int
	Frequency int
}

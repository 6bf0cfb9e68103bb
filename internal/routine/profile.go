package routine

import (
	"strings"

	"github.com/fitcoach/routinecoach/internal/model"
)

// ProfileHygiene strips empty and "not selected" values from a profile
// so every downstream decision sees an absent optional rather than a
// sentinel string.
func ProfileHygiene(p model.UserProfile) model.UserProfile {
	out := model.UserProfile{
		TargetGroup:   cleanPtr(p.TargetGroup),
		FitnessLevel:  cleanPtr(p.FitnessLevel),
		FitnessFactor: cleanPtr(p.FitnessFactor),
	}
	for _, e := range p.PreferredEquipment {
		e = strings.TrimSpace(e)
		if e == "" || strings.EqualFold(e, "not selected") {
			continue
		}
		out.PreferredEquipment = append(out.PreferredEquipment, e)
	}
	return out
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "not selected") {
		return nil
	}
	return &v
}

// DeriveFilters turns a hygiene-cleaned profile into the metadata
// filters C3 applies: absent target group means no restriction; a
// "common" target group restricts to common only; any other target
// group restricts to itself plus common. A fitness factor mentioning
// strength excludes flexibility-tagged exercises.
func DeriveFilters(profile model.UserProfile) model.Filters {
	allowed := map[string]bool{}
	if profile.TargetGroup != nil {
		group := strings.ToLower(*profile.TargetGroup)
		if group == "common" {
			allowed["common"] = true
		} else {
			allowed[group] = true
			allowed["common"] = true
		}
	}

	excluded := map[string]bool{}
	if profile.FitnessFactor != nil && strings.Contains(strings.ToLower(*profile.FitnessFactor), "strength") {
		excluded["flexibility"] = true
	}

	return model.Filters{TargetGroupAllowed: allowed, FitnessFactorExcluded: excluded}
}

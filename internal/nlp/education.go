package nlp

import (
	"strings"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// educationTiers is ordered highest first; the first tier with any marker
// present in the text wins.
var educationTiers = []struct {
	level   domain.EducationLevel
	markers []string
}{
	{domain.EducationDoctorate, []string{"ph.d", "phd", "doctor of philosophy"}},
	{domain.EducationMasters, []string{"master", "m.s", "m.sc", "m.eng", "mba"}},
	{domain.EducationBachelors, []string{"bachelor", "b.s", "b.sc", "b.a."}},
	{domain.EducationAssociate, []string{"associate", "a.s", "a.a"}},
}

// EducationLevel returns the highest education tier mentioned in text,
// or EducationNotFound.
func EducationLevel(text string) domain.EducationLevel {
	lower := strings.ToLower(text)
	for _, tier := range educationTiers {
		for _, marker := range tier.markers {
			if strings.Contains(lower, marker) {
				return tier.level
			}
		}
	}
	return domain.EducationNotFound
}

package nlp

import "regexp"

// actionVerbs is the fixed vocabulary of accomplishment-oriented verbs.
// AccomplishmentScore counts how many distinct verbs appear, not how often.
var actionVerbs = []string{
	"achieved", "accelerated", "administered", "analyzed", "architected",
	"automated", "built", "collaborated", "conceived", "coordinated",
	"created", "decreased", "delivered", "designed", "developed",
	"directed", "drove", "eliminated", "engineered", "established",
	"exceeded", "executed", "expanded", "generated", "grew",
	"implemented", "improved", "increased", "initiated", "launched",
	"led", "managed", "mentored", "migrated", "negotiated",
	"optimized", "orchestrated", "overhauled", "pioneered", "reduced",
	"redesigned", "resolved", "scaled", "shipped", "spearheaded",
	"streamlined", "supervised", "transformed",
}

var actionVerbPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(actionVerbs))
	for i, v := range actionVerbs {
		out[i] = regexp.MustCompile(`(?i)\b` + v + `\b`)
	}
	return out
}()

// AccomplishmentScore returns the number of unique action verbs found in
// text, case-insensitively. Repeated uses of the same verb count once.
func AccomplishmentScore(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, re := range actionVerbPatterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

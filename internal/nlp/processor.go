package nlp

import (
	"regexp"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Processor runs the sectionizer and all feature extractors over one
// document and merges the results into a DocumentRecord. Extractors operate
// on the full text, not per-section; each writes its own record fields, so
// adding or removing one never disturbs the others.
type Processor struct {
	skills *SkillMatcher
	now    func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the time source used by the experience parser
// ("Present" resolution). Tests pin it; production uses time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithSkillMatcher overrides the skills vocabulary.
func WithSkillMatcher(m *SkillMatcher) Option {
	return func(p *Processor) { p.skills = m }
}

// NewProcessor constructs a Processor with the built-in skills vocabulary
// and wall-clock time.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		skills: NewSkillMatcher(defaultSkills),
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process analyzes text into a DocumentRecord. Empty input returns a zero
// record and no error.
func (p *Processor) Process(text string) domain.DocumentRecord {
	if strings.TrimSpace(text) == "" {
		return domain.DocumentRecord{}
	}

	score, level := Readability(text)
	return domain.DocumentRecord{
		RawSections:         Sectionize(text),
		Skills:              p.skills.Match(text),
		ExperienceYears:     ExperienceYears(text, p.now()),
		EducationLevel:      EducationLevel(text),
		ReadabilityScore:    score,
		ReadabilityLevel:    level,
		AccomplishmentScore: AccomplishmentScore(text),
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// PreprocessText normalizes raw text for storage: lowercased, whitespace
// collapsed to single spaces, trimmed.
func PreprocessText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(text), " "))
}

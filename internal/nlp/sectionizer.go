// Package nlp implements the document analysis pipeline: sectionization and
// the independent feature extractors (skills, experience, education,
// readability, behavioral), plus the processor that orchestrates them into a
// single DocumentRecord.
package nlp

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// headingRule maps a section label to the heading patterns that open it.
// Rules are evaluated in table order; the first match wins regardless of
// which label appears first in the document.
type headingRule struct {
	section  domain.Section
	patterns []*regexp.Regexp
}

// headingProbeLen limits how far into a line heading patterns are tested, so
// a long sentence that merely begins with a heading word still matches the
// same way a bare heading does.
const headingProbeLen = 30

var headingRules = []headingRule{
	{domain.SectionSummary, compileHeadings("summary", "profile", "objective", "about me")},
	{domain.SectionExperience, compileHeadings("experience", "work history", "employment history", "professional experience", "career summary")},
	{domain.SectionSkills, compileHeadings("skills", "technical skills", "core competencies", "technologies", "proficiencies")},
	{domain.SectionEducation, compileHeadings("education", "academic background", "qualifications", "certifications")},
	// Sections specific to job descriptions.
	{domain.SectionResponsibilities, compileHeadings("responsibilities", "duties", "what you'll do", "key responsibilities")},
}

func compileHeadings(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)^`+p))
	}
	return out
}

// Sectionize splits raw text into labeled sections by heading detection.
// Lines before the first heading accumulate under HEADER; lines under an
// unknown label fall back to OTHER. Heading lines themselves are consumed.
// Empty input returns an empty map.
func Sectionize(text string) map[domain.Section]string {
	if text == "" {
		return map[domain.Section]string{}
	}

	acc := make(map[domain.Section][]string, len(headingRules)+2)
	for _, rule := range headingRules {
		acc[rule.section] = nil
	}
	acc[domain.SectionHeader] = nil
	acc[domain.SectionOther] = nil

	current := domain.SectionHeader
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		probe := line
		if len(probe) > headingProbeLen {
			probe = probe[:headingProbeLen]
		}

		matched := false
		for _, rule := range headingRules {
			for _, re := range rule.patterns {
				if re.MatchString(probe) {
					current = rule.section
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched {
			continue
		}

		if _, ok := acc[current]; ok {
			acc[current] = append(acc[current], line)
		} else {
			acc[domain.SectionOther] = append(acc[domain.SectionOther], line)
		}
	}

	out := make(map[domain.Section]string, len(acc))
	for section, lines := range acc {
		out[section] = strings.Join(lines, "\n")
	}
	return out
}

package nlp

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the first email address in the text, empty if none.
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractName guesses the candidate name: the first non-empty line that is
// short, contains no digits or email, and is not a section heading.
func ExtractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 60 || strings.ContainsAny(line, "0123456789@") {
			return ""
		}
		probe := line
		if len(probe) > headingProbeLen {
			probe = probe[:headingProbeLen]
		}
		for _, rule := range headingRules {
			for _, re := range rule.patterns {
				if re.MatchString(probe) {
					return ""
				}
			}
		}
		return line
	}
	return ""
}

package nlp

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
)

// defaultSkills is the built-in skills vocabulary, used when no external
// vocabulary file is configured or the configured one cannot be read.
var defaultSkills = []string{
	"python", "java", "c++", "c#", "javascript", "typescript", "ruby", "go", "rust", "swift", "kotlin",
	"sql", "nosql", "postgresql", "mysql", "mongodb", "redis",
	"react", "angular", "vue.js", "next.js", "node.js", "django", "flask", "ruby on rails",
	"html", "css", "sass",
	"aws", "azure", "google cloud", "gcp", "docker", "kubernetes", "terraform", "ci/cd",
	"machine learning", "deep learning", "nlp", "computer vision",
	"tensorflow", "pytorch", "scikit-learn", "keras",
	"pandas", "numpy", "matplotlib", "seaborn",
	"tableau", "power bi", "looker", "dbt",
	"data analysis", "data science", "data engineering", "etl", "data warehousing",
	"agile", "scrum", "jira",
}

// SkillMatcher matches a fixed phrase vocabulary against text on whole-word
// boundaries, case-insensitively. It is immutable after construction and safe
// for concurrent use.
type SkillMatcher struct {
	phrases  []string
	patterns []*regexp.Regexp
}

// NewSkillMatcher builds a matcher over the given vocabulary. Phrases are
// lowercased; empty entries are dropped.
func NewSkillMatcher(vocabulary []string) *SkillMatcher {
	m := &SkillMatcher{}
	seen := make(map[string]bool, len(vocabulary))
	for _, p := range vocabulary {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		m.phrases = append(m.phrases, p)
		m.patterns = append(m.patterns, compilePhrase(p))
	}
	return m
}

// NewSkillMatcherFromFile loads a JSON string-array vocabulary from path.
// A missing or corrupt file degrades to the built-in vocabulary; the
// condition is logged and never surfaces as an error.
func NewSkillMatcherFromFile(path string) *SkillMatcher {
	if path == "" {
		return NewSkillMatcher(defaultSkills)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skills vocabulary unreadable, using built-in list", slog.String("path", path), slog.Any("error", err))
		return NewSkillMatcher(defaultSkills)
	}
	var vocab []string
	if err := json.Unmarshal(b, &vocab); err != nil || len(vocab) == 0 {
		slog.Warn("skills vocabulary corrupt or empty, using built-in list", slog.String("path", path), slog.Any("error", err))
		return NewSkillMatcher(defaultSkills)
	}
	return NewSkillMatcher(vocab)
}

// compilePhrase anchors a phrase on word boundaries. Phrases ending in
// non-word characters (c++, c#) cannot use \b on the right; a lookahead-free
// guard against a following word character is used instead.
func compilePhrase(phrase string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(phrase)
	left := `\b`
	if !startsWithWordChar(phrase) {
		left = ``
	}
	right := `\b`
	if !endsWithWordChar(phrase) {
		right = ``
	}
	return regexp.MustCompile(`(?i)` + left + quoted + right)
}

func startsWithWordChar(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func endsWithWordChar(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Match returns the sorted, deduplicated, lowercased vocabulary phrases found
// in text. Matching is idempotent and order-independent.
func (m *SkillMatcher) Match(text string) []string {
	if text == "" {
		return nil
	}
	var found []string
	for i, re := range m.patterns {
		if re.MatchString(text) {
			found = append(found, m.phrases[i])
		}
	}
	sort.Strings(found)
	return found
}

package nlp_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
)

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func TestExperienceYears_FullRange(t *testing.T) {
	t.Parallel()
	// Jan 2019 - Dec 2020: (2020-2019)*12 + (12-1) + 1 = 24 months = 2 years.
	assert.Equal(t, 2, nlp.ExperienceYears("Jan 2019 - Dec 2020", fixedNow()))
}

func TestExperienceYears_PresentUsesClock(t *testing.T) {
	t.Parallel()
	// 2019 - Present at 2024-06: (2024-2019)*12 + (6-1) + 1 = 66 months = 5 years.
	assert.Equal(t, 5, nlp.ExperienceYears("2019 - Present", fixedNow()))
}

func TestExperienceYears_MonthDefaults(t *testing.T) {
	t.Parallel()
	// Missing months default to Jan..Dec, a full-year span per year listed.
	assert.Equal(t, 1, nlp.ExperienceYears("2020 - 2020", fixedNow()))
}

func TestExperienceYears_OverlapsAreSummed(t *testing.T) {
	t.Parallel()
	text := "Jan 2019 - Dec 2020\nJan 2019 - Dec 2020"
	assert.Equal(t, 4, nlp.ExperienceYears(text, fixedNow()))
}

func TestExperienceYears_NegativeDurationDiscarded(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, nlp.ExperienceYears("Dec 2020 - Jan 2019", fixedNow()))
}

func TestExperienceYears_NoRanges(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, nlp.ExperienceYears("no dates here", fixedNow()))
}

func TestEducationLevel_PriorityOrder(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want domain.EducationLevel
	}{
		{"PhD in Computer Science, also holds a bachelor", domain.EducationDoctorate},
		{"MBA and B.Sc.", domain.EducationMasters},
		{"Bachelor of Arts", domain.EducationBachelors},
		{"Associate degree in nursing", domain.EducationAssociate},
		{"no formal education listed", domain.EducationNotFound},
		{"DOCTOR OF PHILOSOPHY", domain.EducationDoctorate},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, nlp.EducationLevel(tc.text), "text=%q", tc.text)
	}
}

func TestSkillMatcher_IdempotentAndCaseInsensitive(t *testing.T) {
	t.Parallel()
	m := nlp.NewSkillMatcher([]string{"python"})
	got := m.Match("I know Python and PYTHON")
	assert.Equal(t, []string{"python"}, got)
}

func TestSkillMatcher_WholeWordBoundaries(t *testing.T) {
	t.Parallel()
	m := nlp.NewSkillMatcher([]string{"go", "java"})
	assert.Empty(t, m.Match("golang and javascript")) // substrings must not match
	assert.Equal(t, []string{"go", "java"}, m.Match("Go and Java"))
}

func TestSkillMatcher_PhrasesAndSymbols(t *testing.T) {
	t.Parallel()
	m := nlp.NewSkillMatcher([]string{"machine learning", "c++", "c#"})
	got := m.Match("Shipped C++ services and machine learning models")
	assert.Equal(t, []string{"c++", "machine learning"}, got)
}

func TestSkillMatcher_SortedOutput(t *testing.T) {
	t.Parallel()
	m := nlp.NewSkillMatcher([]string{"sql", "aws", "docker"})
	assert.Equal(t, []string{"aws", "docker", "sql"}, m.Match("sql docker aws"))
}

func TestNewSkillMatcherFromFile_MissingFileDegrades(t *testing.T) {
	t.Parallel()
	m := nlp.NewSkillMatcherFromFile("/nonexistent/vocab.json")
	// Falls back to the built-in vocabulary rather than failing.
	assert.Equal(t, []string{"python"}, m.Match("python"))
}

func TestNewSkillMatcherFromFile_CorruptFileDegrades(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	m := nlp.NewSkillMatcherFromFile(path)
	assert.Equal(t, []string{"python"}, m.Match("python"))
}

func TestReadability_ShortTextNotAvailable(t *testing.T) {
	t.Parallel()
	score, level := nlp.Readability("too short to score.")
	assert.Zero(t, score)
	assert.Equal(t, domain.ReadabilityNotAvailable, level)
}

func TestReadability_SimpleProseScoresEasy(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("The cat sat on the mat. The dog ran to the park. ", 20)
	score, level := nlp.Readability(text)
	assert.Greater(t, score, 70.0)
	assert.Contains(t, []domain.ReadabilityLevel{domain.ReadabilityVeryEasy, domain.ReadabilityEasy}, level)
}

func TestReadability_DensePreseScoresHarder(t *testing.T) {
	t.Parallel()
	simple := strings.Repeat("The cat sat on the mat. ", 40)
	dense := strings.Repeat("Organizational restructuring necessitated comprehensive infrastructural modernization initiatives. ", 40)
	simpleScore, _ := nlp.Readability(simple)
	denseScore, denseLevel := nlp.Readability(dense)
	assert.Less(t, denseScore, simpleScore)
	assert.Equal(t, domain.ReadabilityVeryDifficult, denseLevel)
}

func TestAccomplishmentScore_CountsUniqueVerbs(t *testing.T) {
	t.Parallel()
	text := "Led a team. Led another team. Built and shipped a product."
	assert.Equal(t, 3, nlp.AccomplishmentScore(text)) // led, built, shipped
}

func TestAccomplishmentScore_Empty(t *testing.T) {
	t.Parallel()
	assert.Zero(t, nlp.AccomplishmentScore(""))
	assert.Zero(t, nlp.AccomplishmentScore("nothing actionable here"))
}

package nlp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
)

func TestSectionize_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, nlp.Sectionize(""))
}

func TestSectionize_AllKeysPresent(t *testing.T) {
	t.Parallel()
	got := nlp.Sectionize("just a single line")
	for _, s := range []domain.Section{
		domain.SectionHeader, domain.SectionSummary, domain.SectionExperience,
		domain.SectionSkills, domain.SectionEducation, domain.SectionResponsibilities,
		domain.SectionOther,
	} {
		_, ok := got[s]
		assert.True(t, ok, "missing section %s", s)
	}
	assert.Equal(t, "just a single line", got[domain.SectionHeader])
}

func TestSectionize_SplitsByHeading(t *testing.T) {
	t.Parallel()
	text := strings.Join([]string{
		"Jane Doe",
		"jane@example.com",
		"",
		"Summary",
		"Seasoned backend engineer.",
		"EXPERIENCE",
		"Acme Corp, Software Engineer",
		"Jan 2019 - Dec 2020",
		"Technical Skills",
		"Go, PostgreSQL, Kafka",
		"Education",
		"B.Sc. Computer Science",
	}, "\n")

	got := nlp.Sectionize(text)
	require.NotEmpty(t, got)

	assert.Equal(t, "Jane Doe\njane@example.com", got[domain.SectionHeader])
	assert.Equal(t, "Seasoned backend engineer.", got[domain.SectionSummary])
	assert.Equal(t, "Acme Corp, Software Engineer\nJan 2019 - Dec 2020", got[domain.SectionExperience])
	assert.Equal(t, "Go, PostgreSQL, Kafka", got[domain.SectionSkills])
	assert.Equal(t, "B.Sc. Computer Science", got[domain.SectionEducation])
}

func TestSectionize_HeadingLineConsumed(t *testing.T) {
	t.Parallel()
	got := nlp.Sectionize("Skills\nGo")
	assert.Equal(t, "Go", got[domain.SectionSkills])
	assert.NotContains(t, got[domain.SectionSkills], "Skills")
}

func TestSectionize_FirstRuleWins(t *testing.T) {
	t.Parallel()
	// "Experience" matches the EXPERIENCE rule before any later table entry
	// could; table order, not document order, breaks ties.
	got := nlp.Sectionize("Professional Experience\nbuilt things")
	assert.Equal(t, "built things", got[domain.SectionExperience])
}

func TestSectionize_NeverDropsContentLines(t *testing.T) {
	t.Parallel()
	text := strings.Join([]string{
		"line one",
		"Summary",
		"line two",
		"line three",
		"Responsibilities",
		"line four",
	}, "\n")

	got := nlp.Sectionize(text)
	joined := ""
	for _, v := range got {
		joined += v + "\n"
	}
	for _, want := range []string{"line one", "line two", "line three", "line four"} {
		assert.Contains(t, joined, want)
	}
}

func TestSectionize_CaseInsensitiveHeadings(t *testing.T) {
	t.Parallel()
	got := nlp.Sectionize("eDuCaTiOn\nMIT")
	assert.Equal(t, "MIT", got[domain.SectionEducation])
}

func TestSectionize_LongHeadingLineStillMatches(t *testing.T) {
	t.Parallel()
	// Only the first 30 characters are probed, so a heading followed by
	// trailing noise still switches sections.
	got := nlp.Sectionize("Skills and other things I have picked up along the way\nGo")
	assert.Equal(t, "Go", got[domain.SectionSkills])
}

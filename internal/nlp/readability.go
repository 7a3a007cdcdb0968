package nlp

import (
	"math"
	"strings"
	"unicode"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// minReadabilityWords is the smallest sample the readability index is
// considered meaningful for. Shorter texts report 0 / N/A.
const minReadabilityWords = 100

// Readability computes the Flesch reading-ease score of text and buckets it
// into a discrete level. Texts under minReadabilityWords words return
// (0, ReadabilityNotAvailable).
func Readability(text string) (float64, domain.ReadabilityLevel) {
	words := strings.Fields(text)
	if len(words) < minReadabilityWords {
		return 0, domain.ReadabilityNotAvailable
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	score := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	score = math.Round(score*100) / 100

	return score, readabilityLevel(score)
}

func readabilityLevel(score float64) domain.ReadabilityLevel {
	switch {
	case score > 90:
		return domain.ReadabilityVeryEasy
	case score > 70:
		return domain.ReadabilityEasy
	case score > 50:
		return domain.ReadabilityStandard
	case score > 30:
		return domain.ReadabilityDifficult
	default:
		return domain.ReadabilityVeryDifficult
	}
}

func countSentences(text string) int {
	n := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			n++
		}
	}
	return n
}

// countSyllables estimates syllables by counting vowel groups, with the
// common silent-e adjustment. Crude, but consistent: the readability score
// feeds a coarse five-level bucket, not a precise metric.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 0
	}

	groups := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			groups++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && groups > 1 {
		groups--
	}
	if groups == 0 {
		groups = 1
	}
	return groups
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

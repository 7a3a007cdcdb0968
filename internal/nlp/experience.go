package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRangeRe finds year-based date ranges like "Jan 2019 - Dec 2020",
// "2019 - 2021", or "Mar 2020 - Present". Months are optional three-letter
// abbreviations, case-insensitive.
var dateRangeRe = regexp.MustCompile(
	`(?i)\b(?:(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+)?(\d{4})\b\s*-\s*\b(?:(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+)?(\d{4}|Present)\b`)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExperienceYears sums the durations of all date ranges found in text and
// returns whole years (floor). A missing start month defaults to January, a
// missing end month to December; "Present" resolves against now. Ranges with
// non-positive duration are discarded. Overlapping roles are summed, not
// deduplicated; that deliberately overstates tenure for people holding
// concurrent positions and is kept until product intent says otherwise.
func ExperienceYears(text string, now time.Time) int {
	matches := dateRangeRe.FindAllStringSubmatch(text, -1)

	totalMonths := 0
	for _, m := range matches {
		startMonth := 1
		if m[1] != "" {
			startMonth = monthIndex[strings.ToLower(m[1])]
		}
		startYear, _ := strconv.Atoi(m[2])

		var endYear, endMonth int
		if strings.EqualFold(m[4], "present") {
			endYear = now.Year()
			endMonth = int(now.Month())
		} else {
			endYear, _ = strconv.Atoi(m[4])
			endMonth = 12
			if m[3] != "" {
				endMonth = monthIndex[strings.ToLower(m[3])]
			}
		}

		duration := (endYear-startYear)*12 + (endMonth - startMonth) + 1
		if duration > 0 {
			totalMonths += duration
		}
	}

	return totalMonths / 12
}

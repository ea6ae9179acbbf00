// internal/intent/temporal.go
package intent

import (
	"strconv"
	"strings"
	"time"

	"intent-engine/internal/models"
)

// temporalMatch is one recognized temporal phrase with its position.
type temporalMatch struct {
	start   int
	end     int
	rank    int // pattern declaration order, breaks same-position ties
	resolve func() *models.TemporalContext
}

// resolveTemporal scans the normalized query for temporal phrases and
// resolves the first-occurring one against the reference instant. Later
// phrases are deliberately ignored; downstream consumers depend on this
// tie-break. It returns the resolved context and the matched substring,
// or (nil, "") when no phrase parses.
func resolveTemporal(lib *Library, normalized string, ref time.Time, weekStart time.Weekday) (*models.TemporalContext, string) {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	var matches []temporalMatch

	for _, loc := range lib.relativeDay.FindAllStringSubmatchIndex(normalized, -1) {
		word := strings.ToLower(normalized[loc[2]:loc[3]])
		matches = append(matches, temporalMatch{
			start: loc[0], end: loc[1], rank: 0,
			resolve: func() *models.TemporalContext {
				offset := map[string]int{"yesterday": -1, "today": 0, "tomorrow": 1}[word]
				day := refDay.AddDate(0, 0, offset)
				return &models.TemporalContext{DateFilter: word, Start: day, End: day}
			},
		})
	}

	for _, loc := range lib.relativeWeek.FindAllStringSubmatchIndex(normalized, -1) {
		word := strings.ToLower(normalized[loc[2]:loc[3]])
		matches = append(matches, temporalMatch{
			start: loc[0], end: loc[1], rank: 1,
			resolve: func() *models.TemporalContext {
				offset := map[string]int{"last": -7, "this": 0, "next": 7}[word]
				shifted := refDay.AddDate(0, 0, offset)
				start := startOfWeek(shifted, weekStart)
				return &models.TemporalContext{
					DateFilter: word + "_week",
					Start:      start,
					End:        start.AddDate(0, 0, 6),
				}
			},
		})
	}

	for _, loc := range lib.relativeMonth.FindAllStringSubmatchIndex(normalized, -1) {
		word := strings.ToLower(normalized[loc[2]:loc[3]])
		matches = append(matches, temporalMatch{
			start: loc[0], end: loc[1], rank: 2,
			resolve: func() *models.TemporalContext {
				first := time.Date(refDay.Year(), refDay.Month(), 1, 0, 0, 0, 0, refDay.Location())
				if word == "last" {
					first = first.AddDate(0, -1, 0)
				}
				return &models.TemporalContext{
					DateFilter: word + "_month",
					Start:      first,
					End:        first.AddDate(0, 1, -1),
				}
			},
		})
	}

	addDate := func(loc []int, rank int, year, month, day int) {
		matches = append(matches, temporalMatch{
			start: loc[0], end: loc[1], rank: rank,
			resolve: func() *models.TemporalContext {
				d, ok := calendarDay(year, month, day, refDay.Location())
				if !ok {
					return nil
				}
				return &models.TemporalContext{DateFilter: "custom", Start: d, End: d}
			},
		})
	}

	for _, loc := range lib.isoDate.FindAllStringSubmatchIndex(normalized, -1) {
		y, _ := strconv.Atoi(normalized[loc[2]:loc[3]])
		m, _ := strconv.Atoi(normalized[loc[4]:loc[5]])
		d, _ := strconv.Atoi(normalized[loc[6]:loc[7]])
		addDate(loc, 3, y, m, d)
	}

	for _, loc := range lib.usDate.FindAllStringSubmatchIndex(normalized, -1) {
		m, _ := strconv.Atoi(normalized[loc[2]:loc[3]])
		d, _ := strconv.Atoi(normalized[loc[4]:loc[5]])
		y, _ := strconv.Atoi(normalized[loc[6]:loc[7]])
		addDate(loc, 4, y, m, d)
	}

	for _, loc := range lib.textualDate.FindAllStringSubmatchIndex(normalized, -1) {
		month := monthNumber(normalized[loc[2]:loc[3]])
		d, _ := strconv.Atoi(normalized[loc[4]:loc[5]])
		y, _ := strconv.Atoi(normalized[loc[6]:loc[7]])
		addDate(loc, 5, y, month, d)
	}

	// First-occurring phrase wins; unparseable date-likes are skipped, not errors.
	orderMatches(matches)
	for _, m := range matches {
		if tc := m.resolve(); tc != nil {
			return tc, normalized[m.start:m.end]
		}
	}
	return nil, ""
}

// orderMatches sorts by position, then by pattern declaration order.
func orderMatches(matches []temporalMatch) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0; j-- {
			a, b := matches[j-1], matches[j]
			if b.start < a.start || (b.start == a.start && b.rank < a.rank) {
				matches[j-1], matches[j] = b, a
			} else {
				break
			}
		}
	}
}

// calendarDay validates the components strictly; time.Date would silently
// normalize 2025-13-45 into a real date otherwise.
func calendarDay(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

func monthNumber(name string) int {
	switch strings.ToLower(name) {
	case "january":
		return 1
	case "february":
		return 2
	case "march":
		return 3
	case "april":
		return 4
	case "may":
		return 5
	case "june":
		return 6
	case "july":
		return 7
	case "august":
		return 8
	case "september":
		return 9
	case "october":
		return 10
	case "november":
		return 11
	case "december":
		return 12
	}
	return 0
}

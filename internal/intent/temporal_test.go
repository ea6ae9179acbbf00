package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed reference instant for every temporal test: Friday 2025-11-28, mid-day.
var refInstant = time.Date(2025, time.November, 28, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveTemporal_RelativeDays(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name       string
		query      string
		dateFilter string
		start      time.Time
	}{
		{"today", "show tasks due today", "today", day(2025, time.November, 28)},
		{"tomorrow", "remind me tomorrow", "tomorrow", day(2025, time.November, 29)},
		{"yesterday", "bugs closed yesterday", "yesterday", day(2025, time.November, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, matched := resolveTemporal(lib, tt.query, refInstant, time.Monday)
			require.NotNil(t, tc)
			assert.Equal(t, tt.dateFilter, tc.DateFilter)
			assert.Equal(t, tt.start, tc.Start)
			assert.Equal(t, tt.start, tc.End)
			assert.Equal(t, tt.name, matched)
		})
	}
}

func TestResolveTemporal_RelativeWeeks(t *testing.T) {
	lib := NewLibrary()

	// Reference is Friday 2025-11-28; weeks start Monday.
	tests := []struct {
		name       string
		query      string
		dateFilter string
		start      time.Time
		end        time.Time
	}{
		{"this week", "tasks this week", "this_week", day(2025, time.November, 24), day(2025, time.November, 30)},
		{"next week", "due next week", "next_week", day(2025, time.December, 1), day(2025, time.December, 7)},
		{"last week", "closed last week", "last_week", day(2025, time.November, 17), day(2025, time.November, 23)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, _ := resolveTemporal(lib, tt.query, refInstant, time.Monday)
			require.NotNil(t, tc)
			assert.Equal(t, tt.dateFilter, tc.DateFilter)
			assert.Equal(t, tt.start, tc.Start)
			assert.Equal(t, tt.end, tc.End)
		})
	}
}

func TestResolveTemporal_SundayWeekStart(t *testing.T) {
	lib := NewLibrary()

	tc, _ := resolveTemporal(lib, "tasks this week", refInstant, time.Sunday)
	require.NotNil(t, tc)
	assert.Equal(t, day(2025, time.November, 23), tc.Start)
	assert.Equal(t, day(2025, time.November, 29), tc.End)
}

func TestResolveTemporal_RelativeMonths(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name       string
		query      string
		dateFilter string
		start      time.Time
		end        time.Time
	}{
		{"this month", "report for this month", "this_month", day(2025, time.November, 1), day(2025, time.November, 30)},
		{"last month", "bugs from last month", "last_month", day(2025, time.October, 1), day(2025, time.October, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, _ := resolveTemporal(lib, tt.query, refInstant, time.Monday)
			require.NotNil(t, tc)
			assert.Equal(t, tt.dateFilter, tc.DateFilter)
			assert.Equal(t, tt.start, tc.Start)
			assert.Equal(t, tt.end, tc.End)
		})
	}
}

func TestResolveTemporal_ExplicitDates(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name  string
		query string
		want  time.Time
	}{
		{"iso", "due on 2025-12-25", day(2025, time.December, 25)},
		{"us slash", "due on 12/25/2025", day(2025, time.December, 25)},
		{"textual", "due on December 25, 2025", day(2025, time.December, 25)},
		{"textual ordinal", "due on December 3rd 2025", day(2025, time.December, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, _ := resolveTemporal(lib, tt.query, refInstant, time.Monday)
			require.NotNil(t, tc)
			assert.Equal(t, "custom", tc.DateFilter)
			assert.Equal(t, tt.want, tc.Start)
			assert.Equal(t, tt.want, tc.End)
		})
	}
}

func TestResolveTemporal_FirstPhraseWins(t *testing.T) {
	lib := NewLibrary()

	tc, matched := resolveTemporal(lib, "tasks due today and next week", refInstant, time.Monday)
	require.NotNil(t, tc)
	assert.Equal(t, "today", tc.DateFilter)
	assert.Equal(t, "today", matched)
}

func TestResolveTemporal_InvalidDateSkipped(t *testing.T) {
	lib := NewLibrary()

	// 2025-13-45 looks like a date but does not parse; the later valid
	// phrase is resolved instead.
	tc, matched := resolveTemporal(lib, "due 2025-13-45 and tomorrow", refInstant, time.Monday)
	require.NotNil(t, tc)
	assert.Equal(t, "tomorrow", tc.DateFilter)
	assert.Equal(t, "tomorrow", matched)
	assert.Equal(t, day(2025, time.November, 29), tc.Start)
}

func TestResolveTemporal_InvalidDateOnly(t *testing.T) {
	lib := NewLibrary()

	tc, matched := resolveTemporal(lib, "due 2025-02-30", refInstant, time.Monday)
	assert.Nil(t, tc)
	assert.Empty(t, matched)
}

func TestResolveTemporal_NoPhrase(t *testing.T) {
	lib := NewLibrary()

	tc, matched := resolveTemporal(lib, "show all open bugs", refInstant, time.Monday)
	assert.Nil(t, tc)
	assert.Empty(t, matched)
}

func TestResolveTemporal_MonthBoundary(t *testing.T) {
	lib := NewLibrary()

	// tomorrow crosses into December from Sunday 2025-11-30
	ref := time.Date(2025, time.November, 30, 9, 0, 0, 0, time.UTC)
	tc, _ := resolveTemporal(lib, "remind me tomorrow", ref, time.Monday)
	require.NotNil(t, tc)
	assert.Equal(t, day(2025, time.December, 1), tc.Start)
}

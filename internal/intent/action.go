// internal/intent/action.go
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"intent-engine/internal/models"
)

// actionVerbBank maps state-changing verb groups to action kinds, checked in
// declaration order. The same verbs bias ACTION in the detector rule bank.
var actionVerbBank = []struct {
	kind models.ActionType
	re   *regexp.Regexp
}{
	{models.ActionRemind, regexp.MustCompile(`(?i)\b(remind(er)?s?|due date|deadline)\b`)},
	{models.ActionAssign, regexp.MustCompile(`(?i)\b(assign|reassign)\b`)},
	{models.ActionClose, regexp.MustCompile(`(?i)\b(close|reopen)\b`)},
	{models.ActionComplete, regexp.MustCompile(`(?i)\b(complete|finish|mark\s+\S*\s*(as\s+)?done)\b`)},
	{models.ActionDelete, regexp.MustCompile(`(?i)\b(delete|remove)\b`)},
	{models.ActionCreate, regexp.MustCompile(`(?i)\b(create|add|new)\b`)},
	{models.ActionUpdate, regexp.MustCompile(`(?i)\b(update|change|edit|modify|move|rename|set)\b`)},
}

// ExtractActionParameters derives the secondary structured payload for
// ACTION intents. For any other intent type it returns the zero value.
//
// RemindAt combines the resolved date span with an explicit time-of-day
// mention ("2pm", "14:00"); without a time pattern RemindAt stays unset and
// only the date span is reported through the intent's TemporalContext.
func (e *Engine) ExtractActionParameters(intent *models.Intent) models.ActionParameters {
	if intent == nil || intent.Type != models.IntentAction {
		return models.ActionParameters{}
	}

	params := models.ActionParameters{}

	for _, v := range actionVerbBank {
		if v.re.MatchString(intent.NormalizedQuery) {
			params.ActionType = v.kind
			break
		}
	}

	for i := range intent.Entities {
		if intent.Entities[i].ID != "" {
			params.TargetEntity = &intent.Entities[i]
			break
		}
	}

	hour, minute, rawTime, ok := e.timeOfDay(intent.NormalizedQuery)
	if ok {
		base := e.now()
		if intent.Temporal != nil {
			base = intent.Temporal.Start
		}
		at := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
		params.RemindAt = &at
		params.RawTimeExpression = rawTime
	} else if intent.Temporal != nil {
		params.RawTimeExpression = intent.Temporal.DateFilter
	}

	return params
}

// timeOfDay parses the first explicit clock-time mention in the query.
func (e *Engine) timeOfDay(normalized string) (hour, minute int, raw string, ok bool) {
	m := e.lib.timeOfDay.FindStringSubmatch(normalized)
	if m == nil {
		return 0, 0, "", false
	}
	raw = strings.TrimSpace(m[0])

	if m[1] != "" { // 12h "2pm" / "2:30 pm"
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, "", false
		}
		if hour == 12 {
			hour = 0
		}
		if strings.EqualFold(m[3], "pm") {
			hour += 12
		}
		return hour, minute, raw, true
	}

	// 24h "14:00"
	hour, _ = strconv.Atoi(m[4])
	minute, _ = strconv.Atoi(m[5])
	if hour > 23 || minute > 59 {
		return 0, 0, "", false
	}
	return hour, minute, raw, true
}

// internal/intent/detector.go
package intent

import (
	"regexp"
	"strings"

	"intent-engine/internal/models"
)

// intentRule is one weighted keyword/structure heuristic. Rules are applied
// in declaration order; the earliest-declared category wins score ties.
type intentRule struct {
	id     string
	intent models.IntentType
	re     *regexp.Regexp
	weight float64
}

// defaultRawScore is the fail-open score when no rule fires: the query is
// still answered, as a retrieval at low confidence, never an error.
const defaultRawScore = 0.5

// clarificationRawScore keeps bare interrogative fragments below the
// fallback threshold even before the short-query penalty applies.
const clarificationRawScore = 0.4

var intentRules = []intentRule{
	// QUERY: retrieval verbs.
	{
		id:     "query_retrieval_verb",
		intent: models.IntentQuery,
		re:     regexp.MustCompile(`(?i)\b(show|list|find|display|view|search|get|fetch)\b`),
		weight: 0.6,
	},
	{
		id:     "query_domain_noun",
		intent: models.IntentQuery,
		re:     regexp.MustCompile(`(?i)\b(tasks?|subtasks?|bugs?|projects?|programs?|stories|story|use\s?cases?|test\s?cases?)\b`),
		weight: 0.2,
	},
	{
		id:     "query_interrogative_listing",
		intent: models.IntentQuery,
		re:     regexp.MustCompile(`(?i)\b(what are|which|how many|who is|whose)\b`),
		weight: 0.4,
	},

	// NAVIGATION: deep-link verbs.
	{
		id:     "nav_open_verb",
		intent: models.IntentNavigation,
		re:     regexp.MustCompile(`(?i)\b(open|go to|navigate to|take me to|jump to|switch to)\b`),
		weight: 0.8,
	},

	// ACTION: imperative state-changing verbs.
	{
		id:     "action_imperative_verb",
		intent: models.IntentAction,
		re:     regexp.MustCompile(`(?i)\b(set|create|add|assign|update|change|edit|move|close|reopen|complete|finish|mark|remind|schedule|delete|remove)\b`),
		weight: 0.7,
	},
	{
		id:     "action_reminder_noun",
		intent: models.IntentAction,
		re:     regexp.MustCompile(`(?i)\b(reminders?|due date|deadline)\b`),
		weight: 0.2,
	},

	// REPORT: aggregate/insight vocabulary.
	{
		id:     "report_aggregate_noun",
		intent: models.IntentReport,
		re:     regexp.MustCompile(`(?i)\b(distribution|breakdown|trend|summary|report|overview|insights?|analytics|statistics|velocity|burndown)\b`),
		weight: 0.8,
	},
}

// categoryOrder is the tie-break order: the first rule of each category
// fixes its precedence.
var categoryOrder = buildCategoryOrder()

func buildCategoryOrder() []models.IntentType {
	var order []models.IntentType
	seen := map[models.IntentType]bool{}
	for _, r := range intentRules {
		if !seen[r.intent] {
			seen[r.intent] = true
			order = append(order, r.intent)
		}
	}
	return order
}

// detectIntent runs the rule bank over the normalized query and returns the
// winning candidate with a raw score in [0,1].
//
// Scores accumulate per category and are capped at 1. Ties go to the
// earliest-declared category. Very short interrogative fragments with no
// other signal classify as CLARIFICATION; any other ruleless query defaults
// to QUERY at 0.5 (fail-open, never an error).
func detectIntent(normalized string) (models.IntentType, float64) {
	scores := map[models.IntentType]float64{}
	for _, r := range intentRules {
		if r.re.MatchString(normalized) {
			scores[r.intent] += r.weight
		}
	}

	if len(scores) == 0 {
		if isClarificationFragment(normalized) {
			return models.IntentClarification, clarificationRawScore
		}
		return models.IntentQuery, defaultRawScore
	}

	best := categoryOrder[0]
	bestScore := -1.0
	for _, cat := range categoryOrder {
		if s, ok := scores[cat]; ok && s > bestScore {
			best = cat
			bestScore = s
		}
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return best, bestScore
}

var interrogativeStart = regexp.MustCompile(`(?i)^(what|how|why|when|where|who|which|huh)\b`)

// isClarificationFragment flags queries too short and question-shaped to
// carry a resolvable intent ("What?", "Why", "huh?").
func isClarificationFragment(normalized string) bool {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 || len(tokens) > 2 {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(normalized), "?") || interrogativeStart.MatchString(normalized)
}

// hasIntentSignal reports whether any detector rule fires on the query.
// The context resolver uses it to tell continuations from fresh intents.
func hasIntentSignal(normalized string) bool {
	for _, r := range intentRules {
		if r.re.MatchString(normalized) {
			return true
		}
	}
	return false
}

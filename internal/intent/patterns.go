// Package intent implements rule-based intent classification with an
// optional LLM fallback for low-confidence results.
//
// Classification flow:
// 1. Rule-based detection, extraction and temporal resolution (instant, pure)
// 2. LLM fallback for queries the rules cannot classify confidently
package intent

import (
	"regexp"
	"strings"

	"intent-engine/internal/models"
)

// idMatcher binds one entity-id prefix family to its entity type.
type idMatcher struct {
	prefix string
	typ    models.EntityType
	re     *regexp.Regexp
}

// Library holds the compiled matchers shared by every classification call.
// It is immutable after construction and safe for concurrent use.
type Library struct {
	idMatchers []idMatcher
	quoted     *regexp.Regexp
	statuses   *regexp.Regexp
	priorities *regexp.Regexp
	anaphora   *regexp.Regexp
	timeOfDay  *regexp.Regexp

	relativeDay   *regexp.Regexp
	relativeWeek  *regexp.Regexp
	relativeMonth *regexp.Regexp
	isoDate       *regexp.Regexp
	usDate        *regexp.Regexp
	textualDate   *regexp.Regexp
}

// Entity-id families in fixed priority order. An id match always beats a
// quoted-name match at the same span.
var idFamilies = []struct {
	prefix string
	typ    models.EntityType
}{
	{"PRJ", models.EntityProject},
	{"TSK", models.EntityTask},
	{"SUB", models.EntitySubtask},
	{"BUG", models.EntityBug},
	{"STY", models.EntityStory},
	{"USC", models.EntityUseCase},
	{"TST", models.EntityTestCase},
	{"PRG", models.EntityProgram},
}

var statusTerms = []string{
	"open", "in progress", "in review", "blocked", "pending",
	"todo", "done", "completed", "closed", "reopened",
}

var priorityTerms = []string{
	"critical", "urgent", "high priority", "medium priority", "low priority",
	"high", "medium", "low",
}

// NewLibrary compiles the full pattern set once.
func NewLibrary() *Library {
	lib := &Library{
		quoted:     regexp.MustCompile(`"([^"]+)"|'([^']+)'`),
		statuses:   compileVocabulary(statusTerms),
		priorities: compileVocabulary(priorityTerms),
		anaphora:   regexp.MustCompile(`(?i)\b(that one|this one|it|them|that|those)\b`),
		timeOfDay:  regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b|\b(\d{1,2}):(\d{2})\b`),

		relativeDay:   regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`),
		relativeWeek:  regexp.MustCompile(`(?i)\b(this|next|last)\s+week\b`),
		relativeMonth: regexp.MustCompile(`(?i)\b(this|last)\s+month\b`),
		isoDate:       regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		usDate:        regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		textualDate: regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
	}

	for _, fam := range idFamilies {
		lib.idMatchers = append(lib.idMatchers, idMatcher{
			prefix: fam.prefix,
			typ:    fam.typ,
			re:     regexp.MustCompile(`(?i)\b` + fam.prefix + `-([A-Za-z0-9]+)\b`),
		})
	}

	return lib
}

// compileVocabulary builds a single alternation matcher for a term list.
// Longer terms come first in the list so "in progress" wins over "open"-style
// single words at overlapping spans.
func compileVocabulary(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(t), ` `, `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

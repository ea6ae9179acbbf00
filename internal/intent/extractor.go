// internal/intent/extractor.go
package intent

import (
	"sort"
	"strings"

	"intent-engine/internal/models"
)

// extractEntities finds every domain reference in the normalized query.
// It never fails; no match yields an empty slice. Matchers run in fixed
// priority order (id families, quoted names, status terms, priority terms)
// and overlapping matches are dropped in favor of the earlier-priority one.
// The final ordering follows first occurrence in the query.
func extractEntities(lib *Library, normalized string) []models.ExtractedEntity {
	var accepted []models.ExtractedEntity
	var spans []models.Span

	overlaps := func(start, end int) bool {
		for _, s := range spans {
			if start < s.End && end > s.Start {
				return true
			}
		}
		return false
	}

	accept := func(ent models.ExtractedEntity, start, end int) {
		ent.Span = &models.Span{Start: start, End: end}
		accepted = append(accepted, ent)
		spans = append(spans, models.Span{Start: start, End: end})
	}

	// Id families first: a well-formed id always beats a name at the same span.
	for _, m := range lib.idMatchers {
		for _, loc := range m.re.FindAllStringSubmatchIndex(normalized, -1) {
			start, end := loc[0], loc[1]
			if overlaps(start, end) {
				continue
			}
			raw := normalized[start:end]
			suffix := normalized[loc[2]:loc[3]]
			accept(models.ExtractedEntity{
				Type:    m.typ,
				ID:      m.prefix + "-" + suffix,
				RawText: raw,
			}, start, end)
		}
	}

	// Quoted names become NAMED_ENTITY candidates.
	for _, loc := range lib.quoted.FindAllStringSubmatchIndex(normalized, -1) {
		start, end := loc[0], loc[1]
		if overlaps(start, end) {
			continue
		}
		name := submatch(normalized, loc, 1)
		if name == "" {
			name = submatch(normalized, loc, 2)
		}
		if name == "" {
			continue
		}
		accept(models.ExtractedEntity{
			Type:    models.EntityNamed,
			Name:    name,
			RawText: normalized[start:end],
		}, start, end)
	}

	// Vocabulary matchers for status and priority terms. A vocabulary word in
	// the leading verb position ("Open task TSK-123") is the verb, not a
	// status filter, so matches at offset zero are skipped.
	for _, loc := range lib.statuses.FindAllStringIndex(normalized, -1) {
		if loc[0] == 0 || overlaps(loc[0], loc[1]) {
			continue
		}
		raw := normalized[loc[0]:loc[1]]
		accept(models.ExtractedEntity{
			Type:    models.EntityStatusValue,
			Name:    strings.ToLower(raw),
			RawText: raw,
		}, loc[0], loc[1])
	}
	for _, loc := range lib.priorities.FindAllStringIndex(normalized, -1) {
		if overlaps(loc[0], loc[1]) {
			continue
		}
		raw := normalized[loc[0]:loc[1]]
		accept(models.ExtractedEntity{
			Type:    models.EntityPriorityValue,
			Name:    strings.ToLower(raw),
			RawText: raw,
		}, loc[0], loc[1])
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})
	return accepted
}

// submatch returns the capture group n from a FindStringSubmatchIndex result,
// or "" when the group did not participate.
func submatch(s string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

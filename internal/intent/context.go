// internal/intent/context.go
package intent

import (
	"strings"

	"intent-engine/internal/models"
)

// Context-boost bounds per the scoring policy.
const (
	boostAnaphoraResolved = 0.2
	boostContinuation     = 0.1
	boostConflict         = -0.1
)

// resolveContext merges the current extraction results with the prior turn.
//
// Anaphoric references ("it", "them", "that one") with no extracted id are
// substituted with the most recently mentioned entity from the conversation
// context. A short continuation with no fresh intent signal inherits the
// previous turn's intent. The returned boost is positive when context fully
// resolves an ambiguous reference and negative when a brand-new entity id
// contradicts a continuation-shaped query.
func resolveContext(
	lib *Library,
	normalized string,
	entities []models.ExtractedEntity,
	candidate models.IntentType,
	convCtx *models.ConversationContext,
	continuationMaxTokens int,
) ([]models.ExtractedEntity, models.IntentType, float64) {
	if convCtx == nil {
		return entities, candidate, 0
	}

	boost := 0.0
	resolved := entities
	intentType := candidate

	hasID := false
	for _, e := range entities {
		if e.ID != "" {
			hasID = true
			break
		}
	}

	// Anaphora substitution: only when the referenced slot is empty.
	if loc := lib.anaphora.FindStringIndex(normalized); loc != nil && !hasID {
		if len(convCtx.MentionedEntities) > 0 {
			recent := convCtx.MentionedEntities[0]
			carried := models.ExtractedEntity{
				Type:    recent.Type,
				ID:      recent.ID,
				RawText: normalized[loc[0]:loc[1]],
				Span:    &models.Span{Start: loc[0], End: loc[1]},
			}
			resolved = append(append([]models.ExtractedEntity{}, entities...), carried)
			boost = boostAnaphoraResolved
		}
	}

	// Short continuation with no new intent signal inherits the last intent.
	tokens := len(strings.Fields(normalized))
	if convCtx.LastIntent.Valid() && tokens <= continuationMaxTokens {
		if !hasIntentSignal(normalized) {
			intentType = convCtx.LastIntent
			if boost < boostContinuation {
				boost = boostContinuation
			}
			// A brand-new id in a continuation-shaped query contradicts the
			// carry-over reading.
			if hasID && !mentioned(entities, convCtx.MentionedEntities) {
				boost = boostConflict
			}
		}
	}

	return resolved, intentType, clampBoost(boost)
}

// mentioned reports whether any extracted id already appears in the
// prior-turn mentions.
func mentioned(entities []models.ExtractedEntity, mentions []models.MentionedEntity) bool {
	for _, e := range entities {
		if e.ID == "" {
			continue
		}
		for _, m := range mentions {
			if m.ID == e.ID {
				return true
			}
		}
	}
	return false
}

func clampBoost(b float64) float64 {
	if b < boostConflict {
		return boostConflict
	}
	if b > boostAnaphoraResolved {
		return boostAnaphoraResolved
	}
	return b
}

// internal/intent/scorer.go
package intent

import "intent-engine/internal/models"

// Scoring policy constants.
const (
	entityBonus       = 0.1
	entityBonusCap    = 0.3
	temporalBonus     = 0.05
	shortQueryPenalty = 0.2
)

// scoreConfidence combines the detector score, entity presence, temporal
// signal, context boost and query structure into a single [0,1] confidence.
// Pure function: identical inputs always yield identical output.
func scoreConfidence(
	rawScore float64,
	entities []models.ExtractedEntity,
	temporal *models.TemporalContext,
	contextBoost float64,
	tokenCount int,
	minMeaningfulTokens int,
) float64 {
	score := rawScore

	bonus := float64(len(entities)) * entityBonus
	if bonus > entityBonusCap {
		bonus = entityBonusCap
	}
	score += bonus

	if temporal != nil {
		score += temporalBonus
	}

	score += contextBoost

	// Guards against "What?"-style fragments scoring as confident results.
	if tokenCount < minMeaningfulTokens {
		score -= shortQueryPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

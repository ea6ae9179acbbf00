// internal/llm/disabled.go
package llm

import (
	"context"

	"intent-engine/internal/common/errors"
	"intent-engine/internal/intent"
)

// disabled is the always-failing collaborator for environments without LLM
// access. The engine treats its error like any other fallback failure and
// returns the rule-based result.
type disabled struct{}

// Disabled returns a fallback classifier that always reports unavailability.
func Disabled() intent.FallbackClassifier {
	return disabled{}
}

func (disabled) Classify(context.Context, *intent.FallbackRequest) (*intent.FallbackResult, error) {
	return nil, errors.NewLLMUnavailableError()
}

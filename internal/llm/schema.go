// internal/llm/schema.go
package llm

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"intent-engine/internal/common/errors"
)

// responseSchema is the wire contract for the collaborator's answer. A
// response missing intentType, confidence or entities fails validation and
// the engine degrades to the rule-based result.
var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"intentType", "confidence", "entities"},
	"properties": map[string]interface{}{
		"intentType": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"QUERY", "ACTION", "NAVIGATION", "REPORT", "CLARIFICATION"},
		},
		"confidence": map[string]interface{}{
			"type": "number",
		},
		"entities": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"entityType"},
				"properties": map[string]interface{}{
					"entityType": map[string]interface{}{"type": "string"},
					"entityId":   map[string]interface{}{"type": "string"},
					"entityName": map[string]interface{}{"type": "string"},
					"rawText":    map[string]interface{}{"type": "string"},
				},
			},
		},
		"temporalContext": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"startDate", "endDate"},
			"properties": map[string]interface{}{
				"dateFilter": map[string]interface{}{"type": "string"},
				"startDate":  map[string]interface{}{"type": "string"},
				"endDate":    map[string]interface{}{"type": "string"},
			},
		},
	},
}

func validateResponseSchema(payload []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(responseSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewLLMResponseInvalidError(err.Error())
	}
	if !result.Valid() {
		var details []string
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return errors.NewLLMResponseInvalidError(strings.Join(details, "; "))
	}
	return nil
}

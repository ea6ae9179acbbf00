// internal/models/intent.go
package models

import "time"

// IntentType is the closed set of classification outcomes.
type IntentType string

const (
	IntentQuery         IntentType = "QUERY"
	IntentAction        IntentType = "ACTION"
	IntentNavigation    IntentType = "NAVIGATION"
	IntentReport        IntentType = "REPORT"
	IntentClarification IntentType = "CLARIFICATION"
)

// Valid reports whether t is one of the known intent types.
func (t IntentType) Valid() bool {
	switch t {
	case IntentQuery, IntentAction, IntentNavigation, IntentReport, IntentClarification:
		return true
	}
	return false
}

// EntityType is the closed set of domain object kinds an entity can refer to.
type EntityType string

const (
	EntityProject  EntityType = "PROJECT"
	EntityTask     EntityType = "TASK"
	EntitySubtask  EntityType = "SUBTASK"
	EntityBug      EntityType = "BUG"
	EntityStory    EntityType = "USER_STORY"
	EntityUseCase  EntityType = "USE_CASE"
	EntityTestCase EntityType = "TEST_CASE"
	EntityProgram  EntityType = "PROGRAM"

	// Pseudo-entity kinds.
	EntityStatusValue   EntityType = "STATUS_VALUE"
	EntityPriorityValue EntityType = "PRIORITY_VALUE"
	EntityNamed         EntityType = "NAMED_ENTITY"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityProject, EntityTask, EntitySubtask, EntityBug, EntityStory,
		EntityUseCase, EntityTestCase, EntityProgram,
		EntityStatusValue, EntityPriorityValue, EntityNamed:
		return true
	}
	return false
}

// Span marks the start/end byte offsets of a match in the normalized query.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ExtractedEntity is a single domain reference found in a query.
// At least one of ID/Name is set. Entities are immutable once produced;
// ordering follows first occurrence in the query.
type ExtractedEntity struct {
	Type    EntityType `json:"entityType"`
	ID      string     `json:"entityId,omitempty"`
	Name    string     `json:"entityName,omitempty"`
	RawText string     `json:"rawText"`
	Span    *Span      `json:"span,omitempty"`
}

// TemporalContext is a resolved calendar range implied by the query wording.
// Start == End for single-day references; Start <= End always holds.
type TemporalContext struct {
	DateFilter string    `json:"dateFilter"`
	Start      time.Time `json:"startDate"`
	End        time.Time `json:"endDate"`
}

// Intent is the structured classification result for one query. Constructed
// once per classification call and never mutated afterwards.
type Intent struct {
	Type            IntentType        `json:"intentType"`
	Entities        []ExtractedEntity `json:"entities"`
	Confidence      float64           `json:"confidence"`
	RawQuery        string            `json:"rawQuery"`
	NormalizedQuery string            `json:"normalizedQuery"`
	Temporal        *TemporalContext  `json:"temporalContext,omitempty"`
	RequiresLLM     bool              `json:"requiresLlm"`
}

// MentionedEntity is a prior-turn entity reference carried in conversation
// context, most-recent-first.
type MentionedEntity struct {
	Type EntityType `json:"entityType"`
	ID   string     `json:"entityId"`
}

// ConversationContext is supplied by the session collaborator per call.
// The engine only reads it.
type ConversationContext struct {
	LastIntent        IntentType        `json:"lastIntent,omitempty"`
	MentionedEntities []MentionedEntity `json:"mentionedEntities,omitempty"`
}

// ActionType names the state-changing operation an ACTION query asks for.
type ActionType string

const (
	ActionRemind   ActionType = "reminder"
	ActionAssign   ActionType = "assign"
	ActionUpdate   ActionType = "update"
	ActionClose    ActionType = "close"
	ActionCreate   ActionType = "create"
	ActionComplete ActionType = "complete"
	ActionDelete   ActionType = "delete"
)

// ActionParameters is the secondary payload derived for ACTION intents only.
type ActionParameters struct {
	ActionType        ActionType       `json:"actionType,omitempty"`
	TargetEntity      *ExtractedEntity `json:"targetEntity,omitempty"`
	RemindAt          *time.Time       `json:"remindAt,omitempty"`
	RawTimeExpression string           `json:"rawTimeExpression,omitempty"`
}

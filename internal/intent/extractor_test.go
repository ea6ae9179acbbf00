package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-engine/internal/models"
)

func TestExtractEntities_IDFamilies(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name         string
		query        string
		expectedType models.EntityType
		expectedID   string
		expectedRaw  string
	}{
		{"project id", "show PRJ-100 status", models.EntityProject, "PRJ-100", "PRJ-100"},
		{"task id", "open task TSK-123", models.EntityTask, "TSK-123", "TSK-123"},
		{"subtask id", "close SUB-7", models.EntitySubtask, "SUB-7", "SUB-7"},
		{"bug id", "assign BUG-456 to me", models.EntityBug, "BUG-456", "BUG-456"},
		{"user story id", "details for STY-42", models.EntityStory, "STY-42", "STY-42"},
		{"use case id", "USC-9 breakdown", models.EntityUseCase, "USC-9", "USC-9"},
		{"test case id", "rerun TST-88", models.EntityTestCase, "TST-88", "TST-88"},
		{"program id", "PRG-3 overview", models.EntityProgram, "PRG-3", "PRG-3"},
		{"alphanumeric suffix", "update TSK-12a", models.EntityTask, "TSK-12a", "TSK-12a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := extractEntities(lib, tt.query)
			require.NotEmpty(t, entities)

			var found *models.ExtractedEntity
			for i := range entities {
				if entities[i].ID != "" {
					found = &entities[i]
					break
				}
			}
			require.NotNil(t, found, "expected an id-bearing entity")
			assert.Equal(t, tt.expectedType, found.Type)
			assert.Equal(t, tt.expectedID, found.ID)
			assert.Equal(t, tt.expectedRaw, found.RawText)
		})
	}
}

func TestExtractEntities_CaseHandling(t *testing.T) {
	lib := NewLibrary()

	// Prefix matching is case-insensitive; the suffix keeps its raw case.
	entities := extractEntities(lib, "open tsk-12B now")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityTask, entities[0].Type)
	assert.Equal(t, "TSK-12B", entities[0].ID)
	assert.Equal(t, "tsk-12B", entities[0].RawText)
}

func TestExtractEntities_QuotedNames(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name         string
		query        string
		expectedName string
		expectedRaw  string
	}{
		{"double quotes", `find "Website Redesign" tasks`, "Website Redesign", `"Website Redesign"`},
		{"single quotes", "open 'Mobile App'", "Mobile App", "'Mobile App'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := extractEntities(lib, tt.query)
			require.NotEmpty(t, entities)

			var named *models.ExtractedEntity
			for i := range entities {
				if entities[i].Type == models.EntityNamed {
					named = &entities[i]
					break
				}
			}
			require.NotNil(t, named)
			assert.Equal(t, tt.expectedName, named.Name)
			assert.Equal(t, tt.expectedRaw, named.RawText)
			assert.Empty(t, named.ID)
		})
	}
}

func TestExtractEntities_Vocabulary(t *testing.T) {
	lib := NewLibrary()

	entities := extractEntities(lib, "show blocked tasks with high priority")
	require.Len(t, entities, 2)

	assert.Equal(t, models.EntityStatusValue, entities[0].Type)
	assert.Equal(t, "blocked", entities[0].Name)
	assert.Equal(t, models.EntityPriorityValue, entities[1].Type)
	assert.Equal(t, "high priority", entities[1].Name)
}

func TestExtractEntities_LeadingVerbNotStatus(t *testing.T) {
	lib := NewLibrary()

	// "Open" heads the sentence as a verb; it must not extract as a status.
	entities := extractEntities(lib, "Open task TSK-123")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityTask, entities[0].Type)
	assert.Equal(t, "TSK-123", entities[0].ID)
}

func TestExtractEntities_IDBeatsNameAtSameSpan(t *testing.T) {
	lib := NewLibrary()

	entities := extractEntities(lib, `show 'TSK-1' details`)
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityTask, entities[0].Type)
	assert.Equal(t, "TSK-1", entities[0].ID)
}

func TestExtractEntities_OrderingFollowsOccurrence(t *testing.T) {
	lib := NewLibrary()

	entities := extractEntities(lib, `BUG-2 blocks "Checkout" in PRJ-9`)
	require.Len(t, entities, 3)
	assert.Equal(t, "BUG-2", entities[0].ID)
	assert.Equal(t, "Checkout", entities[1].Name)
	assert.Equal(t, "PRJ-9", entities[2].ID)

	for i := 1; i < len(entities); i++ {
		assert.GreaterOrEqual(t, entities[i].Span.Start, entities[i-1].Span.End)
	}
}

func TestExtractEntities_NoMatchReturnsEmpty(t *testing.T) {
	lib := NewLibrary()

	entities := extractEntities(lib, "hello there")
	assert.Empty(t, entities)
}

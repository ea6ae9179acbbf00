package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-engine/internal/models"
)

func classifyForAction(t *testing.T, query string) (*Engine, *models.Intent) {
	t.Helper()
	engine := newTestEngine(t, nil)
	intent, err := engine.Classify(query, nil)
	require.NoError(t, err)
	require.Equal(t, models.IntentAction, intent.Type)
	return engine, intent
}

func TestExtractActionParameters_ReminderWithDateAndTime(t *testing.T) {
	engine, intent := classifyForAction(t, "Set a reminder for BUG-456 tomorrow at 2pm")

	params := engine.ExtractActionParameters(intent)

	assert.Equal(t, models.ActionRemind, params.ActionType)
	require.NotNil(t, params.TargetEntity)
	assert.Equal(t, "BUG-456", params.TargetEntity.ID)
	require.NotNil(t, params.RemindAt)
	assert.Equal(t, time.Date(2025, time.November, 29, 14, 0, 0, 0, time.UTC), *params.RemindAt)
	assert.Equal(t, "2pm", params.RawTimeExpression)
}

func TestExtractActionParameters_TwentyFourHourTime(t *testing.T) {
	engine, intent := classifyForAction(t, "schedule a reminder for TSK-9 today at 14:30")

	params := engine.ExtractActionParameters(intent)

	require.NotNil(t, params.RemindAt)
	assert.Equal(t, time.Date(2025, time.November, 28, 14, 30, 0, 0, time.UTC), *params.RemindAt)
	assert.Equal(t, "14:30", params.RawTimeExpression)
}

func TestExtractActionParameters_NoonAndMidnight(t *testing.T) {
	tests := []struct {
		name  string
		query string
		hour  int
	}{
		{"noon", "remind me about TSK-1 today at 12pm", 12},
		{"midnight", "remind me about TSK-1 today at 12am", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, intent := classifyForAction(t, tt.query)
			params := engine.ExtractActionParameters(intent)
			require.NotNil(t, params.RemindAt)
			assert.Equal(t, tt.hour, params.RemindAt.Hour())
		})
	}
}

func TestExtractActionParameters_DateWithoutTime(t *testing.T) {
	engine, intent := classifyForAction(t, "Set a reminder for BUG-456 tomorrow")

	params := engine.ExtractActionParameters(intent)

	assert.Equal(t, models.ActionRemind, params.ActionType)
	assert.Nil(t, params.RemindAt)
	assert.Equal(t, "tomorrow", params.RawTimeExpression)
}

func TestExtractActionParameters_TimeWithoutDateUsesClock(t *testing.T) {
	engine, intent := classifyForAction(t, "remind me about TSK-42 at 9am please")

	params := engine.ExtractActionParameters(intent)

	require.NotNil(t, params.RemindAt)
	assert.Equal(t, time.Date(2025, time.November, 28, 9, 0, 0, 0, time.UTC), *params.RemindAt)
}

func TestExtractActionParameters_VerbKinds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		kind  models.ActionType
	}{
		{"assign", "assign TSK-1 to Sarah", models.ActionAssign},
		{"close", "close BUG-9 now please", models.ActionClose},
		{"complete", "mark TSK-2 as done today", models.ActionComplete},
		{"delete", "delete the subtask SUB-3", models.ActionDelete},
		{"create", "create a task for the rollout", models.ActionCreate},
		{"update", "update TSK-4 description text", models.ActionUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, intent := classifyForAction(t, tt.query)
			params := engine.ExtractActionParameters(intent)
			assert.Equal(t, tt.kind, params.ActionType)
		})
	}
}

func TestExtractActionParameters_NonActionIntentIsZero(t *testing.T) {
	engine := newTestEngine(t, nil)

	intent, err := engine.Classify("show all tasks due today", nil)
	require.NoError(t, err)
	require.Equal(t, models.IntentQuery, intent.Type)

	params := engine.ExtractActionParameters(intent)
	assert.Equal(t, models.ActionParameters{}, params)

	assert.Equal(t, models.ActionParameters{}, engine.ExtractActionParameters(nil))
}

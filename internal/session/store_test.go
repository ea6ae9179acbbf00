package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-engine/internal/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 30*time.Minute), mr
}

func TestStore_GetMissingKeyReturnsEmptyContext(t *testing.T) {
	store, _ := newTestStore(t)

	cc, err := store.Get(context.Background(), "conv-1")
	require.NoError(t, err)
	require.NotNil(t, cc)
	assert.Empty(t, cc.MentionedEntities)
	assert.Empty(t, cc.LastIntent)
}

func TestStore_RecordThenGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	result := &models.Intent{
		Type: models.IntentQuery,
		Entities: []models.ExtractedEntity{
			{Type: models.EntityProject, ID: "PRJ-100"},
			{Type: models.EntityStatusValue, Name: "blocked"}, // no id, not carried
			{Type: models.EntityTask, ID: "TSK-9"},
		},
	}
	require.NoError(t, store.Record(ctx, "conv-1", result))

	cc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentQuery, cc.LastIntent)
	require.Len(t, cc.MentionedEntities, 2)
	// Most recent first: TSK-9 was recorded after PRJ-100.
	assert.Equal(t, "TSK-9", cc.MentionedEntities[0].ID)
	assert.Equal(t, "PRJ-100", cc.MentionedEntities[1].ID)
}

func TestStore_RepeatMentionFloatsToFront(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := &models.Intent{
		Type: models.IntentQuery,
		Entities: []models.ExtractedEntity{
			{Type: models.EntityProject, ID: "PRJ-100"},
			{Type: models.EntityTask, ID: "TSK-9"},
		},
	}
	require.NoError(t, store.Record(ctx, "conv-1", first))

	second := &models.Intent{
		Type: models.IntentNavigation,
		Entities: []models.ExtractedEntity{
			{Type: models.EntityProject, ID: "PRJ-100"},
		},
	}
	require.NoError(t, store.Record(ctx, "conv-1", second))

	cc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentNavigation, cc.LastIntent)
	require.Len(t, cc.MentionedEntities, 2)
	assert.Equal(t, "PRJ-100", cc.MentionedEntities[0].ID)
	assert.Equal(t, "TSK-9", cc.MentionedEntities[1].ID)
}

func TestStore_MentionHistoryIsBounded(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxMentions+5; i++ {
		result := &models.Intent{
			Type: models.IntentQuery,
			Entities: []models.ExtractedEntity{
				{Type: models.EntityTask, ID: fmt.Sprintf("TSK-%d", i)},
			},
		}
		require.NoError(t, store.Record(ctx, "conv-1", result))
	}

	cc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, cc.MentionedEntities, maxMentions)
	assert.Equal(t, fmt.Sprintf("TSK-%d", maxMentions+4), cc.MentionedEntities[0].ID)
}

func TestStore_CorruptEntryIsDropped(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(keyPrefix+"conv-1", "{not json"))

	cc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, cc.MentionedEntities)
	assert.False(t, mr.Exists(keyPrefix+"conv-1"))
}

func TestStore_EntriesExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	result := &models.Intent{
		Type:     models.IntentQuery,
		Entities: []models.ExtractedEntity{{Type: models.EntityTask, ID: "TSK-1"}},
	}
	require.NoError(t, store.Record(ctx, "conv-1", result))
	require.True(t, mr.Exists(keyPrefix+"conv-1"))

	mr.FastForward(31 * time.Minute)

	cc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, cc.MentionedEntities)
}

func TestStore_Clear(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	result := &models.Intent{
		Type:     models.IntentQuery,
		Entities: []models.ExtractedEntity{{Type: models.EntityTask, ID: "TSK-1"}},
	}
	require.NoError(t, store.Record(ctx, "conv-1", result))
	require.NoError(t, store.Clear(ctx, "conv-1"))

	assert.False(t, mr.Exists(keyPrefix + "conv-1"))
}

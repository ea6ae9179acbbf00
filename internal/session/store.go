// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intent-engine/internal/common/errors"
	"intent-engine/internal/models"
)

const keyPrefix = "intent:context:"

// maxMentions bounds the carried history; anaphora resolution only ever
// reaches for the most recent mentions.
const maxMentions = 10

// Store keeps per-conversation context in Redis so anaphora resolution
// survives across stateless service calls. The engine itself never touches
// this store; the service handler loads context before classification and
// records mentions afterwards.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a store around an existing Redis client.
func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

// NewClient dials Redis with the same pool settings used across the project.
func NewClient(address, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

// Get loads the conversation context for a conversation id. A missing key
// yields an empty context, not an error.
func (s *Store) Get(ctx context.Context, conversationID string) (*models.ConversationContext, error) {
	raw, err := s.client.Get(ctx, keyPrefix+conversationID).Result()
	if err == redis.Nil {
		return &models.ConversationContext{}, nil
	}
	if err != nil {
		return nil, errors.NewSessionUnavailableError(err.Error())
	}

	var cc models.ConversationContext
	if err := json.Unmarshal([]byte(raw), &cc); err != nil {
		// A corrupt entry is dropped rather than poisoning the conversation.
		_ = s.client.Del(ctx, keyPrefix+conversationID).Err()
		return &models.ConversationContext{}, nil
	}
	return &cc, nil
}

// Record updates the stored context with the outcome of one classification:
// the resulting intent type and any id-bearing entities, most-recent-first.
func (s *Store) Record(ctx context.Context, conversationID string, result *models.Intent) error {
	cc, err := s.Get(ctx, conversationID)
	if err != nil {
		return err
	}

	cc.LastIntent = result.Type
	for _, e := range result.Entities {
		if e.ID == "" {
			continue
		}
		cc.MentionedEntities = prepend(cc.MentionedEntities, models.MentionedEntity{
			Type: e.Type,
			ID:   e.ID,
		})
	}
	if len(cc.MentionedEntities) > maxMentions {
		cc.MentionedEntities = cc.MentionedEntities[:maxMentions]
	}

	raw, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("marshal conversation context: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+conversationID, raw, s.ttl).Err(); err != nil {
		return errors.NewSessionUnavailableError(err.Error())
	}
	return nil
}

// Clear removes the stored context for a conversation.
func (s *Store) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, keyPrefix+conversationID).Err(); err != nil {
		return errors.NewSessionUnavailableError(err.Error())
	}
	return nil
}

// prepend inserts m at the front, dropping an existing mention of the same id
// so repeats float to most-recent without duplication.
func prepend(list []models.MentionedEntity, m models.MentionedEntity) []models.MentionedEntity {
	out := []models.MentionedEntity{m}
	for _, existing := range list {
		if existing.ID != m.ID {
			out = append(out, existing)
		}
	}
	return out
}

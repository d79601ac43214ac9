package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skit-dev/sodeca-api/internal/models"
)

// ErrSessionNotFound is returned when no session exists for the given id.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionRepository stores server-side sessions as JSON values in Redis with
// a per-session TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

// Save writes the session, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Find loads the session by id.
func (r *SessionRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

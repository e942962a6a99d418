// Package presence tracks which consultants currently hold a live websocket
// association, in Redis so any instance can answer presence queries.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Status struct {
	Online   bool  `json:"online"`
	LastSeen int64 `json:"last_seen"`
}

type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(userID int64) string {
	return fmt.Sprintf("%s:presence:%d", s.prefix, userID)
}

func (s *Store) Online(ctx context.Context, userID int64) error {
	return s.set(ctx, userID, Status{Online: true, LastSeen: time.Now().Unix()})
}

func (s *Store) Offline(ctx context.Context, userID int64) error {
	return s.set(ctx, userID, Status{Online: false, LastSeen: time.Now().Unix()})
}

func (s *Store) set(ctx context.Context, userID int64, st Status) error {
	b, _ := json.Marshal(st)
	return s.client.Set(ctx, s.key(userID), b, s.ttl).Err()
}

// Get returns the last recorded status; a user never seen reports offline.
func (s *Store) Get(ctx context.Context, userID int64) (Status, error) {
	b, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("get presence %d: %w", userID, err)
	}
	var st Status
	if err := json.Unmarshal(b, &st); err != nil {
		return Status{}, fmt.Errorf("decode presence %d: %w", userID, err)
	}
	return st, nil
}

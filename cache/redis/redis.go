package redis_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/newscast/models"
	"github.com/redis/go-redis/v9"
)

// storedResponse mirrors models.ReportResponse with plain field tags; the model's
// MarshalJSON drops fields by outcome and is meant for the wire.
type storedResponse struct {
	Report   string  `json:"report,omitempty"`
	AudioURL *string `json:"audio_url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Store keeps report responses in Redis. Expiry is delegated to Redis via SET EX, so
// entries are shared by every replica pointing at the same instance.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (models.ReportResponse, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ReportResponse{}, false, nil
		}
		return models.ReportResponse{}, false, err
	}

	var stored storedResponse
	if err := json.Unmarshal(val, &stored); err != nil {
		return models.ReportResponse{}, false, fmt.Errorf("decode cached report: %w", err)
	}
	return models.ReportResponse{Report: stored.Report, AudioURL: stored.AudioURL, Error: stored.Error}, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value models.ReportResponse) error {
	data, err := json.Marshal(storedResponse{Report: value.Report, AudioURL: value.AudioURL, Error: value.Error})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

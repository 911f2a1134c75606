package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizlist/internal/db"
)

type hashItem struct {
	Key    string
	Fields map[string]string
}

// hsetMulti stores multiple hashes in a single DoMulti round-trip.
func (s *Store) hsetMulti(ctx context.Context, items []hashItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(items))
	for i, item := range items {
		cmd := s.b().Hset().Key(item.Key).FieldValue()
		for k, v := range item.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds[i] = cmd.Build()
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return classify(db.OpHSet, fmt.Errorf("key %s: %w", items[i].Key, err))
		}
	}
	return nil
}

// hgetAllMulti fetches multiple hashes in a single DoMulti round-trip.
// A missing key yields an empty map.
func (s *Store) hgetAllMulti(ctx context.Context, op string, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))
	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, classify(op, fmt.Errorf("hgetall %s: %w", keys[i], err))
		}
		out[i] = m
	}
	return out, nil
}

// existsMulti reports, per key, whether it exists.
func (s *Store) existsMulti(ctx context.Context, op string, keys []string) ([]bool, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Exists().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]bool, len(results))
	for i, res := range results {
		n, err := res.AsInt64()
		if err != nil {
			return nil, classify(op, fmt.Errorf("exists %s: %w", keys[i], err))
		}
		out[i] = n > 0
	}
	return out, nil
}
